package profile

import "codeberg.org/mysticoracle/server/oracle/users"

// Response is the account profile with the current daily allowance state
type Response struct {
	ID               string          `json:"id"`
	Email            string          `json:"email"`
	Name             string          `json:"name"`
	Plan             users.Plan      `json:"plan"`
	MinutesLeftToday int             `json:"minutes_left_today"`
	UsedMinutesToday int             `json:"used_minutes_today"`
	Language         string          `json:"language"`
	Languages        []string        `json:"languages"`
	Readings         []users.Reading `json:"readings"`
}
