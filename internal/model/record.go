package model

import "time"

// GameRecord is the archived form of a finished game.
type GameRecord struct {
	ID        string    `json:"id"`
	White     string    `json:"white"`
	Black     string    `json:"black"`
	Result    Phase     `json:"result"`
	FinalFEN  string    `json:"finalFen"`
	Moves     []string  `json:"moves"`
	Notation  []string  `json:"notation"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}
