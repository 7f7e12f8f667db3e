package types

type CreateRoomRequest struct {
	ScenarioID      string `json:"scenario_id"`
	MaxParticipants int    `json:"max_participants"`
	Variant         string `json:"variant,omitempty"`
}

type CreateRoomResponse struct {
	RoomID   string `json:"room_id"`
	Code     string `json:"code"`
	ThreadID string `json:"thread_id"`
}

type JoinRoomRequest struct {
	Code string `json:"code"`
}
