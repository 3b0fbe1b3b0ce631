package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrSessionNotFound    = errors.New("game not found")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNotEnoughPlayers   = errors.New("need at least 2 players to start")
	ErrNotAdmin           = errors.New("only the admin can perform this action")
	ErrNotYourTurn        = errors.New("not your turn to submit")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrEmptyWord          = errors.New("word cannot be empty")
	ErrWordAlreadyUsed    = errors.New("word already used")
	ErrWordTooShort       = errors.New("word must be at least 3 letters")
)

// MissingPromptError is returned when a submission does not contain the
// current turn's letter fragment.
type MissingPromptError struct {
	Prompt string
}

func (e *MissingPromptError) Error() string {
	return fmt.Sprintf("word must contain %q", e.Prompt)
}
