//go:build unit

package slot_test

import (
	"testing"
	"time"

	"court-booking/internal/domain/slot"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowsOf(slots []*slot.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start().String()+"-"+s.End().String())
	}
	return out
}

func TestGenerate(t *testing.T) {
	courtID := uuid.New()
	date, err := slot.ParseDate("2024-06-01")
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "two hourly slots between 09:00 and 11:00",
			raw:  `{"open":"09:00","close":"11:00","slot_minutes":60}`,
			want: []string{"09:00-10:00", "10:00-11:00"},
		},
		{
			name: "partial trailing slot is dropped",
			raw:  `{"open":"09:00","close":"11:30","slot_minutes":60}`,
			want: []string{"09:00-10:00", "10:00-11:00"},
		},
		{
			name: "half hour slots",
			raw:  `{"open":"20:00","close":"21:30","slot_minutes":30}`,
			want: []string{"20:00-20:30", "20:30-21:00", "21:00-21:30"},
		},
		{
			name: "shorthand string descriptor",
			raw:  `"21:00-24:00"`,
			want: []string{"21:00-22:00", "22:00-23:00", "23:00-24:00"},
		},
		{
			name: "close before open yields no slots",
			raw:  `{"open":"11:00","close":"09:00","slot_minutes":60}`,
			want: []string{},
		},
		{
			name: "close equal to open yields no slots",
			raw:  `{"open":"09:00","close":"09:00"}`,
			want: []string{},
		},
		{
			name: "slot longer than the opening window yields no slots",
			raw:  `{"open":"09:00","close":"09:45","slot_minutes":60}`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours := slot.ResolveOperatingHours([]byte(tt.raw), slot.DefaultOperatingHours)
			got := slot.Generate(courtID, date, hours)

			if diff := cmp.Diff(tt.want, windowsOf(got)); diff != "" {
				t.Errorf("slot windows mismatch (-want +got):\n%s", diff)
			}
			for _, s := range got {
				assert.True(t, s.IsAvailable())
				assert.Equal(t, courtID, s.CourtID())
				assert.Equal(t, date, s.Date())
			}
		})
	}
}

func TestResolveOperatingHours_Fallback(t *testing.T) {
	cases := map[string]string{
		"absent":            "",
		"json null":         "null",
		"garbage":           "not json",
		"bad open":          `{"open":"9am","close":"11:00"}`,
		"minutes overflow":  `{"open":"09:75","close":"11:00"}`,
		"negative length":   `{"open":"09:00","close":"11:00","slot_minutes":-30}`,
		"shorthand no dash": `"09:00 11:00"`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got := slot.ResolveOperatingHours([]byte(raw), slot.DefaultOperatingHours)
			assert.Equal(t, slot.DefaultOperatingHours, got)
		})
	}

	t.Run("fallback produces sixteen hourly slots", func(t *testing.T) {
		got := slot.Generate(uuid.New(), time.Now(), slot.ResolveOperatingHours(nil, slot.DefaultOperatingHours))
		require.Len(t, got, 16)
		assert.Equal(t, "06:00", got[0].Start().String())
		assert.Equal(t, "22:00", got[len(got)-1].End().String())
	})

	t.Run("missing slot length inherits fallback", func(t *testing.T) {
		got := slot.ResolveOperatingHours([]byte(`{"open":"08:00","close":"10:00"}`), slot.DefaultOperatingHours)
		assert.Equal(t, time.Hour, got.SlotLength)
		assert.Equal(t, "08:00", got.Open.String())
	})
}

func TestGenerate_Contiguous(t *testing.T) {
	hours := slot.OperatingHours{Open: 7 * 60, Close: 21 * 60, SlotLength: 90 * time.Minute}
	got := slot.Generate(uuid.New(), time.Now(), hours)
	require.NotEmpty(t, got)

	for i := 1; i < len(got); i++ {
		assert.Equal(t, got[i-1].End(), got[i].Start(), "slots must be contiguous")
		assert.Equal(t, 90*time.Minute, got[i].Duration())
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "24:00", want: 1440},
		{in: "10:00:00", want: 600},
		{in: "10:00:30", wantErr: true},
		{in: "24:01", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := slot.ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, slot.ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Minutes())
		})
	}
}

func TestTimeSlot_HasStarted(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	date, _ := slot.ParseDate("2024-06-01")
	s, err := slot.NewTimeSlot(uuid.New(), date, 9*60, 10*60)
	require.NoError(t, err)

	assert.False(t, s.HasStarted(time.Date(2024, 6, 1, 8, 59, 0, 0, loc), loc))
	assert.True(t, s.HasStarted(time.Date(2024, 6, 1, 9, 0, 0, 0, loc), loc))
	// 02:00 UTC is 09:00 in ICT
	assert.True(t, s.HasStarted(time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC), loc))
}

func TestNewTimeSlot_Invalid(t *testing.T) {
	date, _ := slot.ParseDate("2024-06-01")

	_, err := slot.NewTimeSlot(uuid.Nil, date, 60, 120)
	assert.ErrorIs(t, err, slot.ErrInvalidSlot)

	_, err = slot.NewTimeSlot(uuid.New(), date, 120, 120)
	assert.ErrorIs(t, err, slot.ErrInvalidSlot)
}
