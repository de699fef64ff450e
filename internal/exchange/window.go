package exchange

import "codeberg.org/mysticoracle/server/oracle/users"

// number of history entries sent to the provider; bounds request size and
// cost while the stored history stays unbounded
const WindowSize = 10

// returns the most recent n history entries in chronological order
func Window(history []users.Message, n int) []users.Message {
	if n <= 0 || len(history) == 0 {
		return nil
	}

	if len(history) > n {
		history = history[len(history)-n:]
	}

	return history
}
