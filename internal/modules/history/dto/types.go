package dto

import "time"

type RecordInput struct {
	ItemID       string
	Title        string
	StartedAt    time.Time
	EndedAt      time.Time
	PositionSecs float64
	RuntimeSecs  float64
	Completed    bool
}

type EntryOutput struct {
	ItemID       string
	Title        string
	StartedAt    time.Time
	EndedAt      time.Time
	PositionSecs float64
	RuntimeSecs  float64
	Completed    bool
}
