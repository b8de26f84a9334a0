package model

// BotPlayerID is the player id shown for a seat taken by the suggestion
// collaborator.
const BotPlayerID = "bot"

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    Color  `json:"color"`
	TimeLeft int    `json:"timeLeft"` // tenths of a second
	Bot      bool   `json:"bot"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(c Color) *ClientPlayer {
	if c == White {
		return &p.White
	}
	return &p.Black
}

// BotSeat configures a seat played by the move-suggestion collaborator.
type BotSeat struct {
	Suggester Suggester
	Depth     int
	Variants  int
}
