package entity

import "time"

const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultDraw = "draw"
)

// LeaderboardEntry is the durable aggregate of one player's results, keyed by Name.
type LeaderboardEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TotalScore  int       `json:"totalScore"`
	GamesPlayed int       `json:"gamesPlayed"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	Draws       int       `json:"draws"`
	LastPlayed  time.Time `json:"lastPlayed"`
}

func IsKnownResult(result string) bool {
	switch result {
	case ResultWin, ResultLoss, ResultDraw:
		return true
	default:
		return false
	}
}
