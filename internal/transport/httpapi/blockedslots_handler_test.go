package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"citaspa/internal/domain"
	"citaspa/internal/service/blockedslots"
	"citaspa/internal/store"
)

type fakeBlockedSlotsService struct {
	createFn func(ctx context.Context, in blockedslots.CreateInput) (domain.BlockedSlot, error)
	updateFn func(ctx context.Context, slotID uuid.UUID, in blockedslots.UpdateInput) (domain.BlockedSlot, error)
	listFn   func(ctx context.Context) ([]domain.BlockedSlot, error)
	deleteFn func(ctx context.Context, slotID uuid.UUID) error
}

func (f *fakeBlockedSlotsService) Create(ctx context.Context, in blockedslots.CreateInput) (domain.BlockedSlot, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, in)
}

func (f *fakeBlockedSlotsService) Update(ctx context.Context, slotID uuid.UUID, in blockedslots.UpdateInput) (domain.BlockedSlot, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, slotID, in)
}

func (f *fakeBlockedSlotsService) List(ctx context.Context) ([]domain.BlockedSlot, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx)
}

func (f *fakeBlockedSlotsService) Delete(ctx context.Context, slotID uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, slotID)
}

func TestBlockedSlotsCreate_ParsesDayAndReturnsPayload(t *testing.T) {
	var gotIn blockedslots.CreateInput
	h := NewBlockedSlotsHandler(&fakeBlockedSlotsService{
		createFn: func(ctx context.Context, in blockedslots.CreateInput) (domain.BlockedSlot, error) {
			gotIn = in
			return domain.BlockedSlot{
				ID:        uuid.MustParse("00000000-0000-0000-0000-000000000c01"),
				Date:      in.Date,
				StartTime: in.StartTime,
				EndTime:   in.EndTime,
				Reason:    in.Reason,
			}, nil
		},
	}, nil)
	e := echo.New()

	body := `{"date": "2026-03-02", "startTime": "14:00", "endTime": "15:00", "reason": "Mantenimiento"}`
	c, rec := postJSON(t, e, "/blocked-slots", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if gotIn.Date.Format("2006-01-02") != "2026-03-02" {
		t.Fatalf("date = %v, want 2026-03-02", gotIn.Date)
	}

	var payload blockedSlotPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if payload.Date != "2026-03-02" || payload.StartTime != "14:00" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestBlockedSlotsCreate_BadDate(t *testing.T) {
	h := NewBlockedSlotsHandler(&fakeBlockedSlotsService{
		createFn: func(ctx context.Context, in blockedslots.CreateInput) (domain.BlockedSlot, error) {
			t.Fatal("service must not be called")
			return domain.BlockedSlot{}, nil
		},
	}, nil)
	e := echo.New()

	c, rec := postJSON(t, e, "/blocked-slots", `{"date": "03/02/2026", "startTime": "14:00", "endTime": "15:00"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBlockedSlotsCreate_ValidationErrorMapsTo400(t *testing.T) {
	svc := blockedslots.NewService(&stubSlotRepo{})
	h := NewBlockedSlotsHandler(svc, nil)
	e := echo.New()

	c, rec := postJSON(t, e, "/blocked-slots", `{"date": "2026-03-02", "startTime": "15:00", "endTime": "14:00"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if resp.Error != "end_time must be after start_time" {
		t.Fatalf("error = %q", resp.Error)
	}
}

// stubSlotRepo backs the real service in the validation mapping test; no
// method should be reached.
type stubSlotRepo struct{}

func (stubSlotRepo) Create(ctx context.Context, slot domain.BlockedSlot) (domain.BlockedSlot, error) {
	panic("not used")
}

func (stubSlotRepo) Update(ctx context.Context, slot domain.BlockedSlot) (domain.BlockedSlot, error) {
	panic("not used")
}

func (stubSlotRepo) Get(ctx context.Context, slotID uuid.UUID) (domain.BlockedSlot, error) {
	panic("not used")
}

func (stubSlotRepo) List(ctx context.Context) ([]domain.BlockedSlot, error) {
	panic("not used")
}

func (stubSlotRepo) Delete(ctx context.Context, slotID uuid.UUID) error {
	panic("not used")
}

func TestBlockedSlotsDelete_NotFound(t *testing.T) {
	h := NewBlockedSlotsHandler(&fakeBlockedSlotsService{
		deleteFn: func(ctx context.Context, slotID uuid.UUID) error {
			return store.ErrNotFound
		},
	}, nil)
	e := echo.New()

	id := "00000000-0000-0000-0000-000000000c01"
	req := httptest.NewRequest(http.MethodDelete, "/blocked-slots/"+id, strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
