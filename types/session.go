package types

import (
	"mediroom/services/vitals"
)

type SessionChatRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	ScenarioID string `json:"scenario_id,omitempty"`
	Content    string `json:"content"`
	Variant    string `json:"variant,omitempty"`
}

type SessionChatResponse struct {
	SessionID string         `json:"session_id"`
	Reply     string         `json:"reply"`
	Vitals    *vitals.Sample `json:"vitals,omitempty"`
	Score     *float64       `json:"score,omitempty"`
}
