package exchange

import (
	"strings"

	"codeberg.org/mysticoracle/server/oracle/users"
)

// calendar dates are compared as local-day strings, matching the storage format
const dateLayout = "2006-01-02"

// daily minute allowance per plan; one exchange costs one minute
var planMinutes = map[users.Plan]int{
	users.PlanNone:       0,
	users.PlanStarter:    20,
	users.PlanSeeker:     60,
	users.PlanPathfinder: 720,  // 12 hours
	users.PlanUnlimited:  1440, // 24 hours
}

// returns the daily minute allowance for a plan; unknown plans get 0
func PlanAllowance(plan users.Plan) int {
	normalized := users.Plan(strings.ToLower(string(plan)))
	return planMinutes[normalized]
}

// refills the daily allowance on the first touch of a new calendar day
//
// Idempotent within a day: a second call with the same date is a no-op.
// Returns true when a refill happened.
func EnsureFreshAllowance(user *users.User, today string) bool {
	if user.LastResetDate == today {
		return false
	}

	user.LastResetDate = today
	user.MinutesLeftToday = PlanAllowance(user.Plan)
	user.UsedMinutesToday = 0

	return true
}

// spends one minute of the allowance; the orchestrator checks the balance
// before calling, the floor here is a backstop
func ConsumeOneUnit(user *users.User) {
	if user.MinutesLeftToday > 0 {
		user.MinutesLeftToday--
	}

	user.UsedMinutesToday++
}
