package controller

import (
	"errors"

	"github.com/benbeisheim/chess-ai-backend/internal/engine"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, model.ErrInvalidFEN),
		errors.Is(err, model.ErrOutOfRange),
		errors.Is(err, model.ErrNoPiece),
		errors.Is(err, engine.ErrInvalidDepth):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotAPlayer):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrWrongPiece):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func replyError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
