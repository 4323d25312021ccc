package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"citaspa/internal/domain"
	"citaspa/internal/service/settings"
)

type settingsService interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, in settings.UpdateInput) (domain.Settings, error)
}

// SettingsHandler exposes the single business-settings record.
type SettingsHandler struct {
	svc settingsService
	log *slog.Logger
}

func NewSettingsHandler(svc settingsService, log *slog.Logger) *SettingsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SettingsHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.settings")),
	}
}

// RegisterRoutes registers the settings endpoints on the provided group.
//
//	GET   /settings  - Fetch the business settings
//	PATCH /settings  - Update the business settings
func (h *SettingsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/settings", h.Get)
	g.PATCH("/settings", h.Update)
}

type settingsPayload struct {
	ID              string `json:"id"`
	PrimaryColor    string `json:"primaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	SidebarColor    string `json:"sidebarColor"`
	ThemeMode       string `json:"themeMode"`
	LogoURL         string `json:"logoUrl,omitempty"`

	OpenTime                 string `json:"openTime"`
	CloseTime                string `json:"closeTime"`
	AppointmentBufferMinutes int    `json:"appointmentBuffer"`

	BackupEnabled   bool   `json:"backupEnabled"`
	BackupFrequency string `json:"backupFrequency,omitempty"`
	BackupTime      string `json:"backupTime,omitempty"`
	BackupEmail     string `json:"backupEmail,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toSettingsPayload(s domain.Settings) settingsPayload {
	return settingsPayload{
		ID:                       s.ID.String(),
		PrimaryColor:             s.PrimaryColor,
		BackgroundColor:          s.BackgroundColor,
		SidebarColor:             s.SidebarColor,
		ThemeMode:                s.ThemeMode,
		LogoURL:                  s.LogoURL,
		OpenTime:                 s.OpenTime,
		CloseTime:                s.CloseTime,
		AppointmentBufferMinutes: s.AppointmentBufferMinutes,
		BackupEnabled:            s.BackupEnabled,
		BackupFrequency:          s.BackupFrequency,
		BackupTime:               s.BackupTime,
		BackupEmail:              s.BackupEmail,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                s.UpdatedAt,
	}
}

func (h *SettingsHandler) Get(c echo.Context) error {
	log := h.log.With(slog.String("op", "Get"))

	s, err := h.svc.Get(c.Request().Context())
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, toSettingsPayload(s))
}

type updateSettingsRequest struct {
	PrimaryColor    *string `json:"primaryColor"`
	BackgroundColor *string `json:"backgroundColor"`
	SidebarColor    *string `json:"sidebarColor"`
	ThemeMode       *string `json:"themeMode"`
	LogoURL         *string `json:"logoUrl"`

	OpenTime                 *string `json:"openTime"`
	CloseTime                *string `json:"closeTime"`
	AppointmentBufferMinutes *int    `json:"appointmentBuffer"`

	BackupEnabled   *bool   `json:"backupEnabled"`
	BackupFrequency *string `json:"backupFrequency"`
	BackupTime      *string `json:"backupTime"`
	BackupEmail     *string `json:"backupEmail"`
}

func (h *SettingsHandler) Update(c echo.Context) error {
	log := h.log.With(slog.String("op", "Update"))

	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_body"))
		return badRequest(c, "cuerpo de la solicitud inválido")
	}

	s, err := h.svc.Update(c.Request().Context(), settings.UpdateInput{
		PrimaryColor:             req.PrimaryColor,
		BackgroundColor:          req.BackgroundColor,
		SidebarColor:             req.SidebarColor,
		ThemeMode:                req.ThemeMode,
		LogoURL:                  req.LogoURL,
		OpenTime:                 req.OpenTime,
		CloseTime:                req.CloseTime,
		AppointmentBufferMinutes: req.AppointmentBufferMinutes,
		BackupEnabled:            req.BackupEnabled,
		BackupFrequency:          req.BackupFrequency,
		BackupTime:               req.BackupTime,
		BackupEmail:              req.BackupEmail,
	})
	if err != nil {
		return writeError(c, log, err)
	}

	log.Info(
		"settings updated",
		slog.String("hours", s.OpenTime+"-"+s.CloseTime),
		slog.Int("buffer_minutes", s.AppointmentBufferMinutes),
	)

	return c.JSON(http.StatusOK, toSettingsPayload(s))
}
