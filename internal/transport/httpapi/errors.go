package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"citaspa/internal/domain"
	"citaspa/internal/service/appointments"
	"citaspa/internal/service/blockedslots"
	"citaspa/internal/service/settings"
	"citaspa/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service and scheduling errors onto HTTP statuses. The
// scheduling rejections carry the Spanish messages shown in the booking UI.
func writeError(c echo.Context, log *slog.Logger, err error) error {
	var outOfHours *domain.OutOfHoursError
	if errors.As(err, &outOfHours) {
		msg := fmt.Sprintf("La cita debe estar dentro del horario de atención (%s - %s).", outOfHours.OpenTime, outOfHours.CloseTime)
		if outOfHours.EndsAfterClose {
			msg = fmt.Sprintf("La cita termina fuera del horario de atención (%s).", outOfHours.CloseTime)
		}
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
	}

	var spansDays *domain.SpansDaysError
	if errors.As(err, &spansDays) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "La cita no puede terminar al día siguiente."})
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		msg := fmt.Sprintf("Conflicto de horario. Debe haber un margen de %d min entre citas.", conflict.BufferMinutes)
		return c.JSON(http.StatusConflict, errorResponse{Error: msg})
	}

	var blocked *domain.BlockedSlotError
	if errors.As(err, &blocked) {
		msg := fmt.Sprintf("Conflicto con horario bloqueado: %s - %s (%s)", blocked.StartTime, blocked.EndTime, blocked.Reason)
		return c.JSON(http.StatusConflict, errorResponse{Error: msg})
	}

	if errors.Is(err, store.ErrConflict) {
		return c.JSON(http.StatusConflict, errorResponse{Error: "Conflicto de horario."})
	}
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "No encontrado."})
	}

	if isValidationError(err) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	log.Error("request failed", slog.Any("err", err))
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor."})
}

func isValidationError(err error) bool {
	var apptErr *appointments.ValidationError
	var slotErr *blockedslots.ValidationError
	var settingsErr *settings.ValidationError
	return errors.As(err, &apptErr) || errors.As(err, &slotErr) || errors.As(err, &settingsErr)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
