package handlers

import (
	"errors"

	"rugfork-backend/models"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps domain error kinds to HTTP statuses: validation 400,
// state conflicts 409, auth 403, missing 404, pause 503.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.ErrInvalidAmount.Code,
		models.ErrInvalidMultiplier.Code,
		models.ErrInvalidFee.Code,
		models.ErrInvalidCrashPoint.Code,
		models.ErrInvalidXpAmount.Code,
		models.ErrInvalidRugPassLevel.Code,
		models.ErrInsufficientFunds.Code:
		return fiber.StatusBadRequest
	case models.ErrPoolInactive.Code,
		models.ErrPoolAlreadyCrashed.Code,
		models.ErrBetAlreadySettled.Code,
		models.ErrBetAlreadyPlaced.Code,
		models.ErrTournamentNotActive.Code,
		models.ErrTournamentEnded.Code,
		models.ErrAlreadyInTournament.Code,
		models.ErrAchievementUnlocked.Code:
		return fiber.StatusConflict
	case models.ErrUnauthorized.Code:
		return fiber.StatusForbidden
	case models.ErrNotFound.Code, models.ErrRugPassNotFound.Code:
		return fiber.StatusNotFound
	case models.ErrSystemPaused.Code:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
