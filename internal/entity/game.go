package entity

const (
	MatchStatusSetup    = "setup"
	MatchStatusPlaying  = "playing"
	MatchStatusFinished = "finished"

	RoundStatusPlaying = "playing"
	RoundStatusWon     = "won"
	RoundStatusDraw    = "draw"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

const (
	FirstRound     = 1
	MaxRounds      = 5
	RoundsToWin    = 3
	RoundWinPoints = 2
	RoundLossPoint = 1
)

// Board is the 3x3 grid in row-major order.
type Board [9]string

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

type Players struct {
	X *Player `json:"X"`
	O *Player `json:"O"`
}

func (that Players) BySymbol(symbol string) *Player {
	switch symbol {
	case PlayerX:
		return that.X
	case PlayerO:
		return that.O
	default:
		return nil
	}
}

func (that Players) IsSet() bool {
	return that.X != nil && that.O != nil
}

type RoundWins struct {
	X int `json:"X"`
	O int `json:"O"`
}

func (that *RoundWins) Add(symbol string) int {
	if symbol == PlayerX {
		that.X++
		return that.X
	}

	that.O++
	return that.O
}

// Match is the state of one best-of-five session between two players.
type Match struct {
	ID            string    `json:"id"`
	Board         Board     `json:"board"`
	CurrentPlayer string    `json:"current_player"`
	Players       Players   `json:"players"`
	CurrentRound  int       `json:"current_round"`
	RoundWins     RoundWins `json:"round_wins"`
	MatchStatus   string    `json:"match_status"`
	RoundStatus   string    `json:"round_status"`
	Winner        string    `json:"winner"`
	FinalWinner   string    `json:"final_winner"`
	// Version grows by one with every committed change to the session.
	Version       int       `json:"version"`
}

// NewMatch returns a match in the initial setup configuration.
func NewMatch(id string) Match {
	return Match{
		ID:            id,
		CurrentPlayer: PlayerX,
		CurrentRound:  FirstRound,
		MatchStatus:   MatchStatusSetup,
		RoundStatus:   RoundStatusPlaying,
	}
}

// Clone returns a deep copy, players included.
func (that Match) Clone() Match {
	clone := that
	if that.Players.X != nil {
		x := *that.Players.X
		clone.Players.X = &x
	}
	if that.Players.O != nil {
		o := *that.Players.O
		clone.Players.O = &o
	}

	return clone
}

func (that Match) IsSetup() bool {
	return that.MatchStatus == MatchStatusSetup
}

func (that Match) IsPlaying() bool {
	return that.MatchStatus == MatchStatusPlaying
}

func (that Match) IsFinished() bool {
	return that.MatchStatus == MatchStatusFinished
}

func (that Match) IsRoundPlaying() bool {
	return that.RoundStatus == RoundStatusPlaying
}

func ToggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
