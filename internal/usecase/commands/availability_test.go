//go:build unit

package commands_test

import (
	"sync"
	"testing"
	"time"

	"court-booking/internal/domain/court"
	"court-booking/internal/domain/slot"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/commands"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRow struct {
	ID        uuid.UUID
	Start     string
	End       string
	Available bool
}

func rows(slots []*slot.TimeSlot) []slotRow {
	out := make([]slotRow, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotRow{ID: s.ID(), Start: s.Start().String(), End: s.End().String(), Available: s.IsAvailable()})
	}
	return out
}

func windows(slots []*slot.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start().String()+"-"+s.End().String())
	}
	return out
}

func TestResolve_GeneratesFromOperatingHours(t *testing.T) {
	f := newFixture(t)

	res, err := f.availability.Resolve(t.Context(), f.court.ID(), bookingDay)
	require.NoError(t, err)

	assert.True(t, res.Generated)
	assert.Equal(t, court.StatusOpen, res.CourtStatus)
	assert.Equal(t, []string{"09:00-10:00", "10:00-11:00"}, windows(res.Slots))
	for _, s := range res.Slots {
		assert.True(t, s.IsAvailable())
	}
	assert.Equal(t, 2, f.store.SlotInserts)
}

func TestResolve_IsIdempotent(t *testing.T) {
	f := newFixture(t)

	first, err := f.availability.Resolve(t.Context(), f.court.ID(), bookingDay)
	require.NoError(t, err)
	second, err := f.availability.Resolve(t.Context(), f.court.ID(), bookingDay)
	require.NoError(t, err)

	if diff := cmp.Diff(rows(first.Slots), rows(second.Slots)); diff != "" {
		t.Errorf("second resolve differs (-first +second):\n%s", diff)
	}
	assert.False(t, second.Generated)
	assert.Equal(t, 2, f.store.SlotInserts, "second call must not insert")
}

func TestResolve_ConcurrentGenerationProducesOneSet(t *testing.T) {
	f := newFixture(t)

	const callers = 12
	results := make([][]slotRow, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.availability.Resolve(t.Context(), f.court.ID(), bookingDay)
			if assert.NoError(t, err) {
				results[i] = rows(res.Slots)
			}
		}()
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if diff := cmp.Diff(results[0], results[i]); diff != "" {
			t.Errorf("caller %d saw different slots:\n%s", i, diff)
		}
	}
	assert.Len(t, f.store.SlotsFor(f.court.ID(), mustDate(t, bookingDay)), 2)
	assert.Equal(t, 2, f.store.SlotInserts)
}

func TestResolve_OperatingHoursEdgeCases(t *testing.T) {
	f := newFixture(t)

	t.Run("close before open yields empty list", func(t *testing.T) {
		c := f.addCourt(t, `{"open":"22:00","close":"06:00","slot_minutes":60}`)
		res, err := f.availability.Resolve(t.Context(), c.ID(), bookingDay)
		require.NoError(t, err)
		assert.NotNil(t, res.Slots)
		assert.Empty(t, res.Slots)
		assert.False(t, res.Generated)
	})

	t.Run("missing descriptor falls back to 06:00-22:00", func(t *testing.T) {
		c := f.addCourt(t, "")
		res, err := f.availability.Resolve(t.Context(), c.ID(), bookingDay)
		require.NoError(t, err)
		require.Len(t, res.Slots, 16)
		assert.Equal(t, "06:00", res.Slots[0].Start().String())
		assert.Equal(t, "22:00", res.Slots[15].End().String())
	})

	t.Run("garbage descriptor falls back", func(t *testing.T) {
		c := f.addCourt(t, `"whenever"`)
		res, err := f.availability.Resolve(t.Context(), c.ID(), bookingDay)
		require.NoError(t, err)
		assert.Len(t, res.Slots, 16)
	})

	t.Run("trailing partial window is dropped", func(t *testing.T) {
		c := f.addCourt(t, `{"open":"09:00","close":"11:30","slot_minutes":60}`)
		res, err := f.availability.Resolve(t.Context(), c.ID(), bookingDay)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00-10:00", "10:00-11:00"}, windows(res.Slots))
	})
}

func TestResolve_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.availability.Resolve(t.Context(), uuid.New(), bookingDay)
	assert.True(t, errs.Is(err, commands.ErrCourtNotFound))

	_, err = f.availability.Resolve(t.Context(), f.court.ID(), "01/06/2024")
	assert.True(t, errs.Is(err, commands.ErrValidation))

	f.store.Fail["slots.InsertIfAbsent"] = assert.AnError
	_, err = f.availability.Resolve(t.Context(), f.court.ID(), bookingDay)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, f.store.SlotsFor(f.court.ID(), mustDate(t, bookingDay)), "failed generation must not leave rows")
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := slot.ParseDate(s)
	require.NoError(t, err)
	return d
}
