package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"citaspa/internal/domain"
	"citaspa/internal/service/blockedslots"
)

type blockedSlotsService interface {
	Create(ctx context.Context, in blockedslots.CreateInput) (domain.BlockedSlot, error)
	Update(ctx context.Context, slotID uuid.UUID, in blockedslots.UpdateInput) (domain.BlockedSlot, error)
	List(ctx context.Context) ([]domain.BlockedSlot, error)
	Delete(ctx context.Context, slotID uuid.UUID) error
}

// BlockedSlotsHandler manages the administrator-defined exclusion windows.
type BlockedSlotsHandler struct {
	svc blockedSlotsService
	log *slog.Logger
}

func NewBlockedSlotsHandler(svc blockedSlotsService, log *slog.Logger) *BlockedSlotsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BlockedSlotsHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.blockedslots")),
	}
}

// RegisterRoutes registers the blocked-slot endpoints on the provided group.
//
//	POST   /blocked-slots      - Block a window on a day
//	GET    /blocked-slots      - List blocked windows
//	PATCH  /blocked-slots/:id  - Edit a blocked window
//	DELETE /blocked-slots/:id  - Remove a blocked window
func (h *BlockedSlotsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/blocked-slots", h.Create)
	g.GET("/blocked-slots", h.List)
	g.PATCH("/blocked-slots/:id", h.Update)
	g.DELETE("/blocked-slots/:id", h.Delete)
}

type blockedSlotPayload struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toBlockedSlotPayload(s domain.BlockedSlot) blockedSlotPayload {
	return blockedSlotPayload{
		ID:        s.ID.String(),
		Date:      s.Date.Format("2006-01-02"),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Reason:    s.Reason,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type createBlockedSlotRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

func (h *BlockedSlotsHandler) Create(c echo.Context) error {
	log := h.log.With(slog.String("op", "Create"))

	var req createBlockedSlotRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_body"))
		return badRequest(c, "cuerpo de la solicitud inválido")
	}

	date, err := parseDay(req.Date)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_date"))
		return badRequest(c, "date must be YYYY-MM-DD")
	}

	slot, err := h.svc.Create(c.Request().Context(), blockedslots.CreateInput{
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	})
	if err != nil {
		return writeError(c, log, err)
	}

	log.Info(
		"blocked slot created",
		slog.String("slot_id", slot.ID.String()),
		slog.String("date", req.Date),
		slog.String("window", slot.StartTime+"-"+slot.EndTime),
	)

	return c.JSON(http.StatusCreated, toBlockedSlotPayload(slot))
}

type updateBlockedSlotRequest struct {
	Date      *string `json:"date"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Reason    *string `json:"reason"`
}

func (h *BlockedSlotsHandler) Update(c echo.Context) error {
	log := h.log.With(slog.String("op", "Update"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return badRequest(c, "id must be a UUID")
	}

	var req updateBlockedSlotRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_body"), slog.String("slot_id", id.String()))
		return badRequest(c, "cuerpo de la solicitud inválido")
	}

	in := blockedslots.UpdateInput{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if req.Date != nil {
		date, err := parseDay(*req.Date)
		if err != nil {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		in.Date = &date
	}

	slot, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, log, err)
	}

	log.Info("blocked slot updated", slog.String("slot_id", slot.ID.String()))
	return c.JSON(http.StatusOK, toBlockedSlotPayload(slot))
}

func (h *BlockedSlotsHandler) List(c echo.Context) error {
	log := h.log.With(slog.String("op", "List"))

	slots, err := h.svc.List(c.Request().Context())
	if err != nil {
		return writeError(c, log, err)
	}

	out := make([]blockedSlotPayload, 0, len(slots))
	for _, s := range slots {
		out = append(out, toBlockedSlotPayload(s))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BlockedSlotsHandler) Delete(c echo.Context) error {
	log := h.log.With(slog.String("op", "Delete"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return badRequest(c, "id must be a UUID")
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, log, err)
	}

	log.Info("blocked slot deleted", slog.String("slot_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
