package game

import "errors"

// Rule rejections returned by validation and move application. All of these
// mean "the move was refused", never "the engine crashed"; callers surface
// them as user-facing messages.
var (
	ErrOutOfBounds         = errors.New("out of bounds")
	ErrCellOccupied        = errors.New("cell occupied")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrGameNotActive       = errors.New("game not active")
	ErrIllegalSuicide      = errors.New("illegal suicide")
	ErrKoViolation         = errors.New("ko violation")
	ErrGameAlreadyFinished = errors.New("game already finished")
	ErrForbiddenMove       = errors.New("forbidden move")
	ErrPassNotAllowed      = errors.New("pass not allowed")
	ErrInvalidRuleSet      = errors.New("invalid rule set")
)
