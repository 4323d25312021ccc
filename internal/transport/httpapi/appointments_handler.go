package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"citaspa/internal/domain"
	"citaspa/internal/service/appointments"
)

type appointmentsService interface {
	Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	Update(ctx context.Context, appointmentID uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error)
	Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	Delete(ctx context.Context, appointmentID uuid.UUID) error
}

// AppointmentsHandler provides the booking endpoints used by the dashboard
// calendar.
type AppointmentsHandler struct {
	svc appointmentsService
	log *slog.Logger
}

func NewAppointmentsHandler(svc appointmentsService, log *slog.Logger) *AppointmentsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.appointments")),
	}
}

// RegisterRoutes registers the appointment endpoints on the provided group.
//
//	POST   /appointments      - Schedule an appointment
//	GET    /appointments      - List appointments in a window
//	GET    /appointments/:id  - Fetch one appointment
//	PATCH  /appointments/:id  - Reschedule or edit an appointment
//	DELETE /appointments/:id  - Remove an appointment
func (h *AppointmentsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/appointments", h.Create)
	g.GET("/appointments", h.List)
	g.GET("/appointments/:id", h.Get)
	g.PATCH("/appointments/:id", h.Update)
	g.DELETE("/appointments/:id", h.Delete)
}

type appointmentPayload struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"clientId"`
	WorkerID        string    `json:"workerId"`
	ServiceID       string    `json:"serviceId"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	Cost            float64   `json:"cost"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toAppointmentPayload(a domain.Appointment) appointmentPayload {
	return appointmentPayload{
		ID:              a.ID.String(),
		ClientID:        a.ClientID.String(),
		WorkerID:        a.WorkerID.String(),
		ServiceID:       a.ServiceID.String(),
		Date:            a.Date,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Notes:           a.Notes,
		Cost:            a.Cost,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

type createAppointmentRequest struct {
	ClientID        string    `json:"clientId"`
	WorkerID        string    `json:"workerId"`
	ServiceID       string    `json:"serviceId"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	Cost            float64   `json:"cost"`
}

func (h *AppointmentsHandler) Create(c echo.Context) error {
	log := h.log.With(slog.String("op", "Create"))

	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_body"))
		return badRequest(c, "cuerpo de la solicitud inválido")
	}

	clientID, err := parseOptionalUUID(req.ClientID)
	if err != nil {
		return badRequest(c, "clientId must be a UUID")
	}
	workerID, err := parseOptionalUUID(req.WorkerID)
	if err != nil {
		return badRequest(c, "workerId must be a UUID")
	}
	serviceID, err := parseOptionalUUID(req.ServiceID)
	if err != nil {
		return badRequest(c, "serviceId must be a UUID")
	}

	appt, err := h.svc.Create(c.Request().Context(), appointments.CreateInput{
		ClientID:        clientID,
		WorkerID:        workerID,
		ServiceID:       serviceID,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Status:          domain.AppointmentStatus(req.Status),
		Notes:           req.Notes,
		Cost:            req.Cost,
	})
	if err != nil {
		logScheduleRejection(log, err, req.Date)
		return writeError(c, log, err)
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.Time("date", appt.Date),
		slog.Int("duration", appt.DurationMinutes),
	)

	return c.JSON(http.StatusCreated, toAppointmentPayload(appt))
}

type updateAppointmentRequest struct {
	ClientID        *string    `json:"clientId"`
	WorkerID        *string    `json:"workerId"`
	ServiceID       *string    `json:"serviceId"`
	Date            *time.Time `json:"date"`
	DurationMinutes *int       `json:"duration"`
	Status          *string    `json:"status"`
	Notes           *string    `json:"notes"`
	Cost            *float64   `json:"cost"`
}

func (h *AppointmentsHandler) Update(c echo.Context) error {
	log := h.log.With(slog.String("op", "Update"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return badRequest(c, "id must be a UUID")
	}

	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_body"), slog.String("appointment_id", id.String()))
		return badRequest(c, "cuerpo de la solicitud inválido")
	}

	in := appointments.UpdateInput{
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Cost:            req.Cost,
	}
	if req.ClientID != nil {
		parsed, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return badRequest(c, "clientId must be a UUID")
		}
		in.ClientID = &parsed
	}
	if req.WorkerID != nil {
		parsed, err := uuid.Parse(*req.WorkerID)
		if err != nil {
			return badRequest(c, "workerId must be a UUID")
		}
		in.WorkerID = &parsed
	}
	if req.ServiceID != nil {
		parsed, err := uuid.Parse(*req.ServiceID)
		if err != nil {
			return badRequest(c, "serviceId must be a UUID")
		}
		in.ServiceID = &parsed
	}
	if req.Status != nil {
		status := domain.AppointmentStatus(*req.Status)
		in.Status = &status
	}

	appt, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		if req.Date != nil {
			logScheduleRejection(log, err, *req.Date)
		}
		return writeError(c, log, err)
	}

	log.Info("appointment updated", slog.String("appointment_id", appt.ID.String()), slog.Time("date", appt.Date))
	return c.JSON(http.StatusOK, toAppointmentPayload(appt))
}

func (h *AppointmentsHandler) Get(c echo.Context) error {
	log := h.log.With(slog.String("op", "Get"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return badRequest(c, "id must be a UUID")
	}

	appt, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, toAppointmentPayload(appt))
}

func (h *AppointmentsHandler) List(c echo.Context) error {
	log := h.log.With(slog.String("op", "List"))

	windowStart, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_window"))
		return badRequest(c, "from must be an RFC3339 timestamp")
	}
	windowEnd, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_window"))
		return badRequest(c, "to must be an RFC3339 timestamp")
	}

	appts, err := h.svc.List(c.Request().Context(), windowStart, windowEnd)
	if err != nil {
		return writeError(c, log, err)
	}

	out := make([]appointmentPayload, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentPayload(a))
	}

	log.Debug("appointments listed", slog.Int("count", len(out)))
	return c.JSON(http.StatusOK, out)
}

func (h *AppointmentsHandler) Delete(c echo.Context) error {
	log := h.log.With(slog.String("op", "Delete"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return badRequest(c, "id must be a UUID")
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, log, err)
	}

	log.Info("appointment deleted", slog.String("appointment_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}

func parseOptionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

func logScheduleRejection(log *slog.Logger, err error, date time.Time) {
	var conflict *domain.ConflictError
	var blocked *domain.BlockedSlotError
	switch {
	case errors.As(err, &conflict):
		log.Info("appointment conflict", slog.Time("date", date), slog.Int("buffer_minutes", conflict.BufferMinutes))
	case errors.As(err, &blocked):
		log.Info("blocked window conflict", slog.Time("date", date), slog.String("window", blocked.StartTime+"-"+blocked.EndTime))
	}
}
