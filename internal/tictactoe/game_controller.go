package tictactoe

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/playroom/internal/apperror"
	"github.com/rocketscienceinc/playroom/internal/entity"
)

const minPlayerNameLength = 2

type ActionType string

const (
	ActionStartGame  ActionType = "start_game"
	ActionMakeMove   ActionType = "make_move"
	ActionNextRound  ActionType = "next_round"
	ActionResetRound ActionType = "reset_round"
	ActionResetMatch ActionType = "reset_match"
	ActionRematch    ActionType = "rematch"
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Action is one input to the match state machine.
type Action struct {
	Type    ActionType
	Cell    int
	PlayerX string
	PlayerO string
}

func StartGame(playerX, playerO string) Action {
	return Action{Type: ActionStartGame, PlayerX: playerX, PlayerO: playerO}
}

func MakeMove(cell int) Action {
	return Action{Type: ActionMakeMove, Cell: cell}
}

type GameController struct {
	newID func() string
}

type Option func(*GameController)

// WithIDGenerator replaces the player ID source.
func WithIDGenerator(newID func() string) Option {
	return func(that *GameController) {
		that.newID = newID
	}
}

func NewGameController(opts ...Option) *GameController {
	controller := &GameController{
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// Reduce applies the action to a copy of the match. A rejected action returns
// the match unchanged together with the reason.
func (that *GameController) Reduce(match entity.Match, action Action) (entity.Match, error) {
	next := match.Clone()

	var err error
	switch action.Type {
	case ActionStartGame:
		err = that.startGame(&next, action.PlayerX, action.PlayerO)
	case ActionMakeMove:
		err = makeMove(&next, action.Cell)
	case ActionNextRound:
		err = nextRound(&next)
	case ActionResetRound:
		resetRound(&next)
	case ActionResetMatch:
		next = entity.NewMatch(match.ID)
	case ActionRematch:
		err = rematch(&next)
	default:
		err = fmt.Errorf("unknown action %q", action.Type)
	}

	if err != nil {
		return match, err
	}

	return next, nil
}

// CheckWinner returns the symbol occupying a complete line, or an empty string.
func CheckWinner(board entity.Board) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

func (that *GameController) startGame(match *entity.Match, playerX, playerO string) error {
	playerX, playerO = strings.TrimSpace(playerX), strings.TrimSpace(playerO)

	if err := validatePlayerNames(playerX, playerO); err != nil {
		return err
	}

	*match = entity.NewMatch(match.ID)
	match.Players = entity.Players{
		X: &entity.Player{ID: that.newID(), Name: playerX, Symbol: entity.PlayerX},
		O: &entity.Player{ID: that.newID(), Name: playerO, Symbol: entity.PlayerO},
	}
	match.MatchStatus = entity.MatchStatusPlaying

	return nil
}

func validatePlayerNames(playerX, playerO string) error {
	if utf8.RuneCountInString(playerX) < minPlayerNameLength {
		return fmt.Errorf("%w: player X", apperror.ErrPlayerNameTooShort)
	}

	if utf8.RuneCountInString(playerO) < minPlayerNameLength {
		return fmt.Errorf("%w: player O", apperror.ErrPlayerNameTooShort)
	}

	if playerX == playerO {
		return apperror.ErrSamePlayerNames
	}

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(match *entity.Match, cell int) error {
	if cell < 0 || cell >= len(match.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if match.IsSetup() {
		return apperror.ErrGameIsNotStarted
	}

	if !match.IsRoundPlaying() {
		return apperror.ErrRoundNotPlaying
	}

	if match.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

func makeMove(match *entity.Match, cell int) error {
	if err := validateMove(match, cell); err != nil {
		return err
	}

	match.Board[cell] = match.CurrentPlayer

	switch winner := CheckWinner(match.Board); {
	case winner != entity.EmptyCell:
		finishRoundWithWinner(match, winner)
	case match.Board.IsFull():
		match.RoundStatus = entity.RoundStatusDraw

		if match.CurrentRound == entity.MaxRounds {
			finishMatch(match)
		}
	default:
		match.CurrentPlayer = entity.ToggleMark(match.CurrentPlayer)
	}

	return nil
}

func finishRoundWithWinner(match *entity.Match, winner string) {
	match.RoundStatus = entity.RoundStatusWon
	match.Winner = winner
	wins := match.RoundWins.Add(winner)

	if player := match.Players.BySymbol(winner); player != nil {
		player.Score += entity.RoundWinPoints
	}

	if player := match.Players.BySymbol(entity.ToggleMark(winner)); player != nil {
		player.Score += entity.RoundLossPoint
	}

	if wins >= entity.RoundsToWin || match.CurrentRound == entity.MaxRounds {
		finishMatch(match)
	}
}

func finishMatch(match *entity.Match) {
	match.MatchStatus = entity.MatchStatusFinished
	match.FinalWinner = determineFinalWinner(match.RoundWins)
}

// determineFinalWinner - strictly more round wins takes the match, equal counts are a draw.
func determineFinalWinner(wins entity.RoundWins) string {
	switch {
	case wins.X > wins.O:
		return entity.PlayerX
	case wins.O > wins.X:
		return entity.PlayerO
	default:
		return entity.EmptyCell
	}
}

func nextRound(match *entity.Match) error {
	if !match.IsPlaying() {
		return apperror.ErrMatchNotPlaying
	}

	if match.CurrentRound >= entity.MaxRounds {
		return apperror.ErrLastRound
	}

	match.CurrentRound++
	resetRound(match)

	return nil
}

func resetRound(match *entity.Match) {
	match.Board = entity.Board{}
	match.CurrentPlayer = entity.PlayerX
	match.RoundStatus = entity.RoundStatusPlaying
	match.Winner = entity.EmptyCell
}

func rematch(match *entity.Match) error {
	if !match.Players.IsSet() {
		return apperror.ErrPlayersNotSet
	}

	players := match.Players
	players.X.Score = 0
	players.O.Score = 0

	*match = entity.NewMatch(match.ID)
	match.Players = players
	match.MatchStatus = entity.MatchStatusPlaying

	return nil
}
