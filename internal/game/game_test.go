package game

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	st := New()
	if st.Progress != 0 || st.Lives != 3 || st.Phase != Playing {
		t.Errorf("New() = %+v", st)
	}
	if st.Revealed() != "3." {
		t.Errorf("Revealed() = %q, want %q", st.Revealed(), "3.")
	}
}

func TestGuess_Sequence(t *testing.T) {
	st := New()

	steps := []struct {
		guess        string
		wantOutcome  Outcome
		wantProgress int
		wantLives    int
		wantExpected byte
	}{
		{guess: "1", wantOutcome: Correct, wantProgress: 1, wantLives: 3, wantExpected: '1'},
		{guess: "4", wantOutcome: Correct, wantProgress: 2, wantLives: 3, wantExpected: '4'},
		{guess: "9", wantOutcome: Wrong, wantProgress: 2, wantLives: 2, wantExpected: '1'},
	}

	for _, step := range steps {
		var fb Feedback
		var err error
		st, fb, err = st.Guess(step.guess)
		if err != nil {
			t.Fatalf("Guess(%q) error: %v", step.guess, err)
		}
		if fb.Outcome != step.wantOutcome {
			t.Errorf("Guess(%q) outcome = %v, want %v", step.guess, fb.Outcome, step.wantOutcome)
		}
		if fb.Expected != step.wantExpected {
			t.Errorf("Guess(%q) expected = %q, want %q", step.guess, fb.Expected, step.wantExpected)
		}
		if st.Progress != step.wantProgress || st.Lives != step.wantLives {
			t.Errorf("after %q: progress=%d lives=%d, want %d/%d",
				step.guess, st.Progress, st.Lives, step.wantProgress, step.wantLives)
		}
	}

	if st.Phase != Playing {
		t.Errorf("Phase = %v, want playing", st.Phase)
	}
	if st.Revealed() != "3.14" {
		t.Errorf("Revealed() = %q, want 3.14", st.Revealed())
	}
}

func TestGuess_ThreeMissesEndGame(t *testing.T) {
	st := New()
	guesses := []string{"1", "4", "0", "1", "0", "0"}

	var err error
	for _, g := range guesses {
		st, _, err = st.Guess(g)
		if err != nil {
			t.Fatalf("Guess(%q) error: %v", g, err)
		}
	}

	if st.Phase != GameOver {
		t.Fatalf("Phase = %v, want game over", st.Phase)
	}
	if st.Lives != 0 {
		t.Errorf("Lives = %d, want 0", st.Lives)
	}
	if st.Progress != 3 {
		t.Errorf("Progress = %d, want 3", st.Progress)
	}
}

func TestGuess_InvalidInput(t *testing.T) {
	tests := []string{"", "a", "12", "-", " ", "٣", "x1"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			st := New()
			st.Progress = 4

			next, fb, err := st.Guess(input)
			if !errors.Is(err, ErrNotDigit) {
				t.Errorf("Guess(%q) error = %v, want ErrNotDigit", input, err)
			}
			if next != st {
				t.Errorf("state changed: %+v -> %+v", st, next)
			}
			if fb != (Feedback{}) {
				t.Errorf("feedback = %+v, want zero", fb)
			}
		})
	}
}

func TestGuess_TrimsWhitespace(t *testing.T) {
	st, fb, err := New().Guess(" 1 ")
	if err != nil {
		t.Fatalf("Guess() error: %v", err)
	}
	if fb.Outcome != Correct || st.Progress != 1 {
		t.Errorf("outcome=%v progress=%d", fb.Outcome, st.Progress)
	}
}

func TestGuess_AfterGameOver(t *testing.T) {
	st := State{Progress: 2, Lives: 0, Phase: GameOver}

	next, _, err := st.Guess("1")
	if !errors.Is(err, ErrNotPlaying) {
		t.Errorf("error = %v, want ErrNotPlaying", err)
	}
	if next != st {
		t.Errorf("state changed: %+v -> %+v", st, next)
	}
}

func TestGuess_ClearsSequence(t *testing.T) {
	st := New()

	var err error
	for i := 0; i < len(Digits); i++ {
		st, _, err = st.Guess(string(Digits[i]))
		if err != nil {
			t.Fatalf("digit %d: %v", i, err)
		}
	}

	if st.Phase != Cleared {
		t.Fatalf("Phase = %v, want cleared", st.Phase)
	}
	if st.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", st.Remaining())
	}
	if st.Revealed() != "3."+Digits {
		t.Errorf("Revealed() = %q", st.Revealed())
	}

	if _, _, err := st.Guess("0"); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("guess after clearing: error = %v, want ErrNotPlaying", err)
	}
}

func TestGuess_ExhaustedProgressGuard(t *testing.T) {
	st := State{Progress: len(Digits), Lives: 3, Phase: Playing}

	next, _, err := st.Guess("5")
	if !errors.Is(err, ErrNotPlaying) {
		t.Errorf("error = %v, want ErrNotPlaying", err)
	}
	if next.Phase != Cleared {
		t.Errorf("Phase = %v, want cleared", next.Phase)
	}
}

func TestRestart(t *testing.T) {
	states := []State{
		{Progress: 7, Lives: 0, Phase: GameOver},
		{Progress: len(Digits), Lives: 2, Phase: Cleared},
		{Progress: 3, Lives: 1, Phase: Playing},
	}

	for _, st := range states {
		got := st.Restart()
		if got != New() {
			t.Errorf("Restart() from %+v = %+v", st, got)
		}
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Playing, "playing"},
		{GameOver, "game over"},
		{Cleared, "cleared"},
		{Phase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
