package dto

type PlayInput struct {
	ItemID string
}

type StatusOutput struct {
	Active       bool
	ItemID       string
	Title        string
	PositionSecs float64
	RuntimeSecs  float64
	Paused       bool
}
