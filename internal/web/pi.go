package web

import (
	"errors"
	"net/http"

	"github.com/justestif/go-mbti-song-recommender/internal/game"
	"github.com/justestif/go-mbti-song-recommender/internal/logging"
)

// Pi handles the memory game page (GET /pi).
func (h *Handlers) Pi(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)

	state := session.Game
	data := PiPageData{
		PageData:  h.pageData(r, &session, "π Memory Challenge"),
		Revealed:  state.Revealed(),
		Progress:  state.Progress,
		Lives:     state.Lives,
		Remaining: state.Remaining(),
		GameOver:  state.Phase == game.GameOver,
		Cleared:   state.Phase == game.Cleared,
	}
	h.sessions.Save(session)

	h.render(w, http.StatusOK, "pi", data)
}

// Guess checks the submitted digit and redirects back to the game (POST /pi/guess).
func (h *Handlers) Guess(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)

	next, fb, err := session.Game.Guess(r.FormValue("digit"))
	switch {
	case errors.Is(err, game.ErrNotDigit):
		h.redirect(w, r, session, "/pi", flash("warning", "Please enter a single digit!"))
		return
	case errors.Is(err, game.ErrNotPlaying):
		session.Game = next
		h.redirect(w, r, session, "/pi", flash("info", "This game is over. Press play again to restart."))
		return
	case err != nil:
		logging.Error().Err(err).Str("session_id", session.ID).Msg("Unexpected guess error")
		http.Error(w, "Failed to check guess", http.StatusInternalServerError)
		return
	}

	session.Game = next

	var msg *FlashMessage
	switch {
	case next.Phase == game.Cleared:
		msg = flash("success", "🏆 Perfect! That was the last digit.")
	case fb.Outcome == game.Correct:
		msg = flash("success", "🎯 Correct!")
	default:
		msg = flash("error", "❌ Wrong! The digit was %c.", fb.Expected)
		if next.Phase == game.GameOver {
			logging.Debug().Str("session_id", session.ID).Int("progress", next.Progress).Msg("Pi game over")
		}
	}

	h.redirect(w, r, session, "/pi", msg)
}

// Restart begins a new game (POST /pi/restart).
func (h *Handlers) Restart(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	session.Game = session.Game.Restart()
	h.redirect(w, r, session, "/pi", nil)
}
