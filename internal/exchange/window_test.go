package exchange

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mysticoracle/server/oracle/users"
)

func makeHistory(n int) []users.Message {
	history := make([]users.Message, n)
	for i := range history {
		role := users.RoleUser
		if i%2 == 1 {
			role = users.RoleAssistant
		}

		history[i] = users.Message{Role: role, Content: fmt.Sprintf("entry %d", i)}
	}

	return history
}

func TestWindow_ShortHistoryPassesThrough(t *testing.T) {
	history := makeHistory(4)

	window := Window(history, 10)

	assert.Equal(t, history, window)
}

func TestWindow_LongHistoryKeepsNewestEntries(t *testing.T) {
	history := makeHistory(25)

	window := Window(history, 10)

	require.Len(t, window, 10)
	assert.Equal(t, "entry 15", window[0].Content)
	assert.Equal(t, "entry 24", window[9].Content, "chronological order must be preserved")
}

func TestWindow_EmptyAndZero(t *testing.T) {
	assert.Nil(t, Window(nil, 10))
	assert.Nil(t, Window(makeHistory(5), 0))
}
