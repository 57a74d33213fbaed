package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/quickcourt/quickcourt-backend/internal/model"
	"github.com/quickcourt/quickcourt-backend/internal/repository"
)

type slotKey struct {
	date, start, end string
}

type fakeSlotStore struct {
	blocked   map[slotKey]bool
	generated []model.TimeSlot
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{blocked: map[slotKey]bool{}}
}

func (f *fakeSlotStore) GenerateForDate(_ context.Context, _ uint64, _ string, slots []model.TimeSlot) error {
	f.generated = append(f.generated, slots...)
	return nil
}

func (f *fakeSlotStore) ListForDate(_ context.Context, _ uint64, date string) ([]model.TimeSlot, error) {
	var out []model.TimeSlot
	for i, s := range f.generated {
		if s.Date == date {
			s.ID = uint64(i + 1)
			s.Blocked = f.blocked[slotKey{s.Date, s.StartTime, s.EndTime}]
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotStore) Block(_ context.Context, _ uint64, date, start, end string, _ *string) error {
	f.blocked[slotKey{date, start, end}] = true
	return nil
}

// Unblock mirrors the repository contract: the returned count is the number
// of rows actually flipped, zero when the slot was not blocked.
func (f *fakeSlotStore) Unblock(_ context.Context, _ uint64, date, start, end string) (int64, error) {
	k := slotKey{date, start, end}
	if !f.blocked[k] {
		return 0, nil
	}
	delete(f.blocked, k)
	return 1, nil
}

func (f *fakeSlotStore) BlockByIDs(_ context.Context, _ uint64, ids []uint64, _ *string) (int64, error) {
	return int64(len(ids)), nil
}

func (f *fakeSlotStore) UnblockByIDs(_ context.Context, _ uint64, ids []uint64) (int64, error) {
	return 0, nil
}

type fakeVenueOwner struct {
	owners map[uint64]uint64
}

func (f *fakeVenueOwner) OwnerOf(_ context.Context, id uint64) (uint64, error) {
	owner, ok := f.owners[id]
	if !ok {
		return 0, repository.ErrVenueNotFound
	}
	return owner, nil
}

type fakeCourtByID struct {
	courts map[uint64]*model.Court
}

func (f *fakeCourtByID) GetByID(_ context.Context, id uint64) (*model.Court, error) {
	c, ok := f.courts[id]
	if !ok {
		return nil, repository.ErrCourtNotFound
	}
	cp := *c
	return &cp, nil
}

type slotDeps struct {
	h     *OwnerSlotHandler
	slots *fakeSlotStore
}

func newSlotDeps(t *testing.T) slotDeps {
	t.Helper()
	slots := newFakeSlotStore()
	venues := &fakeVenueOwner{owners: map[uint64]uint64{3: 42}}
	courts := &fakeCourtByID{courts: map[uint64]*model.Court{
		7: {ID: 7, VenueID: 3, Name: "Court A", SportType: "tennis", PricePerHourCents: 3000, Active: true},
	}}
	return slotDeps{h: NewOwnerSlotHandler(venues, courts, slots), slots: slots}
}

func slotCtx(t *testing.T, body string, ownerID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", ownerID)
	c.SetParamNames("venueId", "courtId")
	c.SetParamValues("3", "7")
	return c, rec
}

func TestUnblockNeverBlockedSlotIsNoOp(t *testing.T) {
	d := newSlotDeps(t)
	body := `{"slots":[{"date":"2026-03-11","startTime":"10:00","endTime":"11:00"}]}`
	c, rec := slotCtx(t, body, 42)

	require.NoError(t, d.h.UnblockSlots(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Unblocked int64 `json:"unblocked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Zero(t, out.Unblocked)
}

func TestBlockThenUnblockSlot(t *testing.T) {
	d := newSlotDeps(t)
	tuple := `[{"date":"2026-03-11","startTime":"10:00","endTime":"11:00"}]`

	c, rec := slotCtx(t, `{"slots":`+tuple+`,"reason":"maintenance"}`, 42)
	require.NoError(t, d.h.BlockSlots(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, d.slots.blocked[slotKey{"2026-03-11", "10:00", "11:00"}])

	c, rec = slotCtx(t, `{"slots":`+tuple+`}`, 42)
	require.NoError(t, d.h.UnblockSlots(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Unblocked int64 `json:"unblocked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, int64(1), out.Unblocked)

	// Repeating the unblock flips nothing further.
	c, rec = slotCtx(t, `{"slots":`+tuple+`}`, 42)
	require.NoError(t, d.h.UnblockSlots(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Zero(t, out.Unblocked)
}

func TestBlockSlotsRequiresTargets(t *testing.T) {
	d := newSlotDeps(t)
	c, rec := slotCtx(t, `{}`, 42)

	require.NoError(t, d.h.BlockSlots(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlockSlotsForeignVenue(t *testing.T) {
	d := newSlotDeps(t)
	body := `{"slots":[{"date":"2026-03-11","startTime":"10:00","endTime":"11:00"}]}`
	c, rec := slotCtx(t, body, 99)

	require.NoError(t, d.h.BlockSlots(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGenerateSlotsCoversOperatingWindow(t *testing.T) {
	d := newSlotDeps(t)
	c, rec := slotCtx(t, `{"date":"2026-03-11"}`, 42)

	require.NoError(t, d.h.GenerateSlots(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	// Default 06:00-22:00 window yields 16 hourly rows.
	require.Len(t, d.slots.generated, 16)
	require.Equal(t, "06:00", d.slots.generated[0].StartTime)
	require.Equal(t, "22:00", d.slots.generated[15].EndTime)
}
