package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"citaspa/internal/domain"
	"citaspa/internal/service/appointments"
	"citaspa/internal/store"
)

type fakeAppointmentsService struct {
	createFn func(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	updateFn func(ctx context.Context, appointmentID uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error)
	getFn    func(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	listFn   func(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	deleteFn func(ctx context.Context, appointmentID uuid.UUID) error
}

func (f *fakeAppointmentsService) Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, in)
}

func (f *fakeAppointmentsService) Update(ctx context.Context, appointmentID uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, appointmentID, in)
}

func (f *fakeAppointmentsService) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, appointmentID)
}

func (f *fakeAppointmentsService) List(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx, windowStart, windowEnd)
}

func (f *fakeAppointmentsService) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, appointmentID)
}

func postJSON(t *testing.T, e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleAppointment() domain.Appointment {
	return domain.Appointment{
		ID:              uuid.MustParse("00000000-0000-0000-0000-000000000b01"),
		ClientID:        uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		WorkerID:        uuid.MustParse("00000000-0000-0000-0000-000000000002"),
		ServiceID:       uuid.MustParse("00000000-0000-0000-0000-000000000003"),
		Date:            time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          domain.AppointmentStatusPending,
	}
}

const createBody = `{
	"clientId": "00000000-0000-0000-0000-000000000001",
	"workerId": "00000000-0000-0000-0000-000000000002",
	"serviceId": "00000000-0000-0000-0000-000000000003",
	"date": "2026-03-02T15:00:00Z",
	"duration": 60
}`

func TestAppointmentsCreate_Success(t *testing.T) {
	var gotIn appointments.CreateInput
	h := NewAppointmentsHandler(&fakeAppointmentsService{
		createFn: func(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error) {
			gotIn = in
			return sampleAppointment(), nil
		},
	}, nil)
	e := echo.New()

	c, rec := postJSON(t, e, "/appointments", createBody)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if gotIn.ClientID != uuid.MustParse("00000000-0000-0000-0000-000000000001") {
		t.Fatalf("clientId = %s", gotIn.ClientID)
	}
	if gotIn.DurationMinutes != 60 {
		t.Fatalf("duration = %d, want 60", gotIn.DurationMinutes)
	}

	var payload appointmentPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if payload.ID != "00000000-0000-0000-0000-000000000b01" {
		t.Fatalf("payload id = %s", payload.ID)
	}
	if payload.Status != "PENDING" {
		t.Fatalf("payload status = %s", payload.Status)
	}
}

func TestAppointmentsCreate_SchedulingErrorMessages(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "outside business hours",
			err:        &domain.OutOfHoursError{OpenTime: "09:00", CloseTime: "21:00"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "La cita debe estar dentro del horario de atención (09:00 - 21:00).",
		},
		{
			name:       "ends after close",
			err:        &domain.OutOfHoursError{OpenTime: "09:00", CloseTime: "21:00", EndsAfterClose: true},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "La cita termina fuera del horario de atención (21:00).",
		},
		{
			name:       "spans days",
			err:        &domain.SpansDaysError{StartDate: "2026-03-02", EndDate: "2026-03-03"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "La cita no puede terminar al día siguiente.",
		},
		{
			name:       "buffered conflict",
			err:        &domain.ConflictError{BufferMinutes: 10},
			wantStatus: http.StatusConflict,
			wantMsg:    "Conflicto de horario. Debe haber un margen de 10 min entre citas.",
		},
		{
			name:       "blocked window",
			err:        &domain.BlockedSlotError{StartTime: "14:00", EndTime: "15:00", Reason: "Bloqueado"},
			wantStatus: http.StatusConflict,
			wantMsg:    "Conflicto con horario bloqueado: 14:00 - 15:00 (Bloqueado)",
		},
		{
			name:       "constraint backstop",
			err:        store.ErrConflict,
			wantStatus: http.StatusConflict,
			wantMsg:    "Conflicto de horario.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAppointmentsHandler(&fakeAppointmentsService{
				createFn: func(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error) {
					return domain.Appointment{}, tc.err
				},
			}, nil)
			e := echo.New()

			c, rec := postJSON(t, e, "/appointments", createBody)
			if err := h.Create(c); err != nil {
				t.Fatalf("Create error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if resp.Error != tc.wantMsg {
				t.Fatalf("error = %q, want %q", resp.Error, tc.wantMsg)
			}
		})
	}
}

func TestAppointmentsCreate_InvalidUUID(t *testing.T) {
	h := NewAppointmentsHandler(&fakeAppointmentsService{
		createFn: func(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error) {
			t.Fatal("service must not be called")
			return domain.Appointment{}, nil
		},
	}, nil)
	e := echo.New()

	c, rec := postJSON(t, e, "/appointments", `{"clientId": "not-a-uuid"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAppointmentsUpdate_ForwardsPartialInput(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000b01")
	var gotID uuid.UUID
	var gotIn appointments.UpdateInput

	h := NewAppointmentsHandler(&fakeAppointmentsService{
		updateFn: func(ctx context.Context, appointmentID uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error) {
			gotID = appointmentID
			gotIn = in
			return sampleAppointment(), nil
		},
	}, nil)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+id.String(), strings.NewReader(`{"status": "CONFIRMED"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != id {
		t.Fatalf("id = %s, want %s", gotID, id)
	}
	if gotIn.Status == nil || *gotIn.Status != domain.AppointmentStatusConfirmed {
		t.Fatalf("status input = %v, want CONFIRMED", gotIn.Status)
	}
	if gotIn.Date != nil || gotIn.DurationMinutes != nil {
		t.Fatalf("unset fields forwarded: %+v", gotIn)
	}
}

func TestAppointmentsGet_NotFound(t *testing.T) {
	h := NewAppointmentsHandler(&fakeAppointmentsService{
		getFn: func(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrNotFound
		},
	}, nil)
	e := echo.New()

	id := "00000000-0000-0000-0000-000000000b01"
	req := httptest.NewRequest(http.MethodGet, "/appointments/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.Get(c); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAppointmentsList_RequiresWindow(t *testing.T) {
	h := NewAppointmentsHandler(&fakeAppointmentsService{
		listFn: func(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
			return []domain.Appointment{sampleAppointment()}, nil
		},
	}, nil)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/appointments?from=2026-03-02T00:00:00Z&to=2026-03-03T00:00:00Z", nil)
	rec = httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload []appointmentPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("listed %d appointments, want 1", len(payload))
	}
}

func TestAppointmentsDelete_NoContent(t *testing.T) {
	h := NewAppointmentsHandler(&fakeAppointmentsService{
		deleteFn: func(ctx context.Context, appointmentID uuid.UUID) error {
			return nil
		},
	}, nil)
	e := echo.New()

	id := "00000000-0000-0000-0000-000000000b01"
	req := httptest.NewRequest(http.MethodDelete, "/appointments/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}
