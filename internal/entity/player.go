package entity

// Player is one side of a match. Created at pairing time, immutable after.
type Player struct {
	ConnectionID string `json:"connection_id"`
	Name         string `json:"name"`
	Tag          string `json:"tag"`
}
