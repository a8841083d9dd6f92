package models

import "fmt"

// AppError is a coded domain error. Operations fail with exactly one kind and
// leave every touched entity unchanged; handlers map codes to HTTP statuses.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on code so wrapped copies compare equal to the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap returns a copy of the sentinel carrying a cause.
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err}
}

var (
	ErrPoolInactive        = &AppError{Code: "POOL_INACTIVE", Message: "pool is not active"}
	ErrInvalidAmount       = &AppError{Code: "INVALID_AMOUNT", Message: "invalid amount"}
	ErrInvalidMultiplier   = &AppError{Code: "INVALID_MULTIPLIER", Message: "invalid multiplier"}
	ErrBetAlreadySettled   = &AppError{Code: "BET_ALREADY_SETTLED", Message: "bet already settled"}
	ErrBetAlreadyPlaced    = &AppError{Code: "BET_ALREADY_PLACED", Message: "user already has a bet on this pool"}
	ErrInsufficientFunds   = &AppError{Code: "INSUFFICIENT_FUNDS", Message: "insufficient funds"}
	ErrInvalidFee          = &AppError{Code: "INVALID_FEE_PERCENTAGE", Message: "invalid fee percentage"}
	ErrPoolAlreadyCrashed  = &AppError{Code: "POOL_ALREADY_CRASHED", Message: "pool already crashed"}
	ErrTournamentNotActive = &AppError{Code: "TOURNAMENT_NOT_ACTIVE", Message: "tournament not active"}
	ErrTournamentEnded     = &AppError{Code: "TOURNAMENT_ENDED", Message: "tournament already ended"}
	ErrAlreadyInTournament = &AppError{Code: "USER_ALREADY_IN_TOURNAMENT", Message: "user already in tournament"}
	ErrInvalidCrashPoint   = &AppError{Code: "INVALID_CRASH_POINT", Message: "invalid crash point"}
	ErrUnauthorized        = &AppError{Code: "UNAUTHORIZED", Message: "unauthorized access"}
	ErrSystemPaused        = &AppError{Code: "SYSTEM_PAUSED", Message: "system paused"}
	ErrInvalidXpAmount     = &AppError{Code: "INVALID_XP_AMOUNT", Message: "invalid XP amount"}
	ErrRugPassNotFound     = &AppError{Code: "RUG_PASS_NOT_FOUND", Message: "rug pass not found"}
	ErrInvalidRugPassLevel = &AppError{Code: "INVALID_RUG_PASS_LEVEL", Message: "invalid rug pass level"}
	ErrAchievementUnlocked = &AppError{Code: "ACHIEVEMENT_ALREADY_UNLOCKED", Message: "achievement already unlocked"}
	ErrNotFound            = &AppError{Code: "NOT_FOUND", Message: "record not found"}
)
