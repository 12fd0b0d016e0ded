package dto

import "time"

type SendChatRequest struct {
	Question  string `json:"question" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
	Model     string `json:"model,omitempty"`
}

type SendChatResponse struct {
	Answer    string `json:"answer"`
	SessionId string `json:"session_id"`
	Model     string `json:"model"`
}

type ChatTurnResponse struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

type GetChatHistoryResponse struct {
	SessionId string             `json:"session_id"`
	Turns     []ChatTurnResponse `json:"turns"`
}

// PersistTurnMessage is the payload published after a successful answer; the
// consumer appends it to chat history off the request path.
type PersistTurnMessage struct {
	SessionId string `json:"session_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Model     string `json:"model"`
}
