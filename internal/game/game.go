// Package game implements the pi digit memory game as a value-typed state machine.
//
// The caller owns the State and threads it through each interaction:
//
//	st := game.New()
//	st, fb, err := st.Guess("1")
package game

import (
	"errors"
	"strings"
)

// Digits are the decimals of pi the player has to recall, in order.
const Digits = "14159265358979323846264338327950288419716939937510"

// StartingLives is the number of wrong guesses allowed per game.
const StartingLives = 3

// Sentinel errors. Neither changes the state.
var (
	// ErrNotDigit is returned when a guess is not a single digit.
	ErrNotDigit = errors.New("guess must be a single digit")
	// ErrNotPlaying is returned when guessing after the game has ended.
	ErrNotPlaying = errors.New("game has ended, restart to play again")
)

// Phase is the coarse game state.
type Phase int

const (
	// Playing accepts guesses.
	Playing Phase = iota
	// GameOver is reached when lives run out.
	GameOver
	// Cleared is reached when every known digit has been recalled.
	Cleared
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case GameOver:
		return "game over"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// State is a snapshot of one game.
type State struct {
	Progress int // Digits matched so far
	Lives    int
	Phase    Phase
}

// New returns a fresh game.
func New() State {
	return State{Lives: StartingLives, Phase: Playing}
}

// Outcome classifies an accepted guess.
type Outcome int

const (
	// Correct means the digit matched and progress advanced.
	Correct Outcome = iota + 1
	// Wrong means a life was lost.
	Wrong
)

// Feedback describes the result of an accepted guess.
type Feedback struct {
	Outcome  Outcome
	Guess    byte
	Expected byte // The digit that was due
}

// Guess applies a single-digit guess and returns the next state.
// Invalid input or a finished game returns the receiver unchanged and an error.
func (s State) Guess(input string) (State, Feedback, error) {
	if s.Phase != Playing {
		return s, Feedback{}, ErrNotPlaying
	}

	input = strings.TrimSpace(input)
	if len(input) != 1 || input[0] < '0' || input[0] > '9' {
		return s, Feedback{}, ErrNotDigit
	}
	if s.Progress >= len(Digits) {
		s.Phase = Cleared
		return s, Feedback{}, ErrNotPlaying
	}

	fb := Feedback{Guess: input[0], Expected: Digits[s.Progress]}

	if fb.Guess == fb.Expected {
		fb.Outcome = Correct
		s.Progress++
		if s.Progress == len(Digits) {
			s.Phase = Cleared
		}
		return s, fb, nil
	}

	fb.Outcome = Wrong
	s.Lives = max(0, s.Lives-1)
	if s.Lives == 0 {
		s.Phase = GameOver
	}
	return s, fb, nil
}

// Restart returns a fresh game regardless of the current phase.
func (s State) Restart() State {
	return New()
}

// Revealed returns "3." followed by the digits matched so far.
func (s State) Revealed() string {
	return "3." + Digits[:min(s.Progress, len(Digits))]
}

// Remaining returns how many digits are left to recall.
func (s State) Remaining() int {
	return max(0, len(Digits)-s.Progress)
}
