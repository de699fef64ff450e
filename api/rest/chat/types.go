package chat

// AskRequest is one inbound question for the oracle
type AskRequest struct {
	Message  string `json:"message" binding:"max=2000"`
	Language string `json:"lang" binding:"max=8"`
}

// AskResponse carries the oracle's reply and the remaining daily minutes
type AskResponse struct {
	Answer      string `json:"answer"`
	MinutesLeft int    `json:"minutes_left"`
	Language    string `json:"language"`
}
