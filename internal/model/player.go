package model

// ClientPlayer is a seat as shown to clients. The engine's seat has ID
// EnginePlayerID; an empty human ID means the seat is still open.
type ClientPlayer struct {
	ID    string `json:"name"`
	Color Color  `json:"color"`
}
