package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quickcourt/quickcourt-backend/internal/schedule"
)

func TestParseClock(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cases := map[string]int{
			"00:00": 0,
			"06:00": 360,
			"09:30": 570,
			"21:00": 1260,
			"23:59": 1439,
		}
		for in, want := range cases {
			got, err := schedule.ParseClock(in)
			require.NoError(t, err)
			require.Equal(t, want, got, in)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, in := range []string{"", "24:00", "9:00", "12:60", "12:0", "noon", "12:00:00"} {
			_, err := schedule.ParseClock(in)
			require.Error(t, err, in)
		}
	})
}

func TestFormatClock(t *testing.T) {
	require.Equal(t, "06:00", schedule.FormatClock(360))
	require.Equal(t, "09:30", schedule.FormatClock(570))
	require.Equal(t, "00:00", schedule.FormatClock(0))
}

func TestValidDate(t *testing.T) {
	require.True(t, schedule.ValidDate("2024-01-01"))
	require.True(t, schedule.ValidDate("2024-02-29")) // leap year
	require.False(t, schedule.ValidDate("2023-02-29"))
	require.False(t, schedule.ValidDate("2024-13-01"))
	require.False(t, schedule.ValidDate("01-01-2024"))
	require.False(t, schedule.ValidDate("2024-1-1"))
}

func TestOverlaps(t *testing.T) {
	nine10 := schedule.Interval{Start: 540, End: 600}

	cases := []struct {
		name  string
		other schedule.Interval
		want  bool
	}{
		{"identical", schedule.Interval{Start: 540, End: 600}, true},
		{"partial right", schedule.Interval{Start: 570, End: 630}, true},
		{"partial left", schedule.Interval{Start: 510, End: 570}, true},
		{"contained", schedule.Interval{Start: 550, End: 560}, true},
		{"containing", schedule.Interval{Start: 480, End: 660}, true},
		{"back to back after", schedule.Interval{Start: 600, End: 660}, false},
		{"back to back before", schedule.Interval{Start: 480, End: 540}, false},
		{"disjoint", schedule.Interval{Start: 720, End: 780}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, nine10.Overlaps(tc.other))
			require.Equal(t, tc.want, tc.other.Overlaps(nine10)) // symmetric
		})
	}
}

func TestHourlySlots(t *testing.T) {
	t.Run("default window yields 16 slots", func(t *testing.T) {
		slots := schedule.HourlySlots(schedule.DefaultOpenMinutes, schedule.DefaultCloseMinutes)
		require.Len(t, slots, 16)
		require.Equal(t, schedule.Interval{Start: 360, End: 420}, slots[0])    // 06:00-07:00
		require.Equal(t, schedule.Interval{Start: 1260, End: 1320}, slots[15]) // 21:00-22:00
	})

	t.Run("window shorter than a slot", func(t *testing.T) {
		require.Empty(t, schedule.HourlySlots(600, 630))
	})

	t.Run("degenerate windows", func(t *testing.T) {
		require.Empty(t, schedule.HourlySlots(600, 600))
		require.Empty(t, schedule.HourlySlots(600, 540))
		require.Empty(t, schedule.HourlySlots(-60, 60))
	})

	t.Run("partial trailing hour is dropped", func(t *testing.T) {
		// 06:00-21:30 -> last full slot is 20:00-21:00
		slots := schedule.HourlySlots(360, 1290)
		require.Len(t, slots, 15)
		require.Equal(t, schedule.Interval{Start: 1200, End: 1260}, slots[14])
	})
}

func TestAvailable(t *testing.T) {
	open, close := schedule.DefaultOpenMinutes, schedule.DefaultCloseMinutes

	t.Run("no bookings returns full window", func(t *testing.T) {
		avail := schedule.Available(open, close, nil)
		require.Len(t, avail, 16)
		require.Equal(t, "06:00", schedule.FormatClock(avail[0].Start))
		require.Equal(t, "21:00", schedule.FormatClock(avail[15].Start))
		require.Equal(t, "22:00", schedule.FormatClock(avail[15].End))
	})

	t.Run("single booking removes exactly its slot", func(t *testing.T) {
		booked := []schedule.Interval{{Start: 840, End: 900}} // 14:00-15:00
		avail := schedule.Available(open, close, booked)
		require.Len(t, avail, 15)
		for _, iv := range avail {
			require.False(t, iv.Overlaps(booked[0]))
		}
	})

	t.Run("off-grid booking removes both touched slots", func(t *testing.T) {
		// 14:30-15:30 overlaps 14:00-15:00 and 15:00-16:00
		busy := []schedule.Interval{{Start: 870, End: 930}}
		avail := schedule.Available(open, close, busy)
		require.Len(t, avail, 14)
	})

	t.Run("blocked slots subtract like bookings", func(t *testing.T) {
		busy := []schedule.Interval{
			{Start: 840, End: 900},  // booking 14:00-15:00
			{Start: 600, End: 660},  // maintenance 10:00-11:00
		}
		avail := schedule.Available(open, close, busy)
		require.Len(t, avail, 14)
	})

	t.Run("fully booked window", func(t *testing.T) {
		busy := []schedule.Interval{{Start: open, End: close}}
		require.Empty(t, schedule.Available(open, close, busy))
	})
}

func TestAnnotate(t *testing.T) {
	avail := []schedule.Interval{{Start: 360, End: 420}, {Start: 420, End: 480}}
	overrides := map[schedule.Interval]uint32{{Start: 420, End: 480}: 9900}

	slots := schedule.Annotate(avail, 50000, overrides)
	require.Len(t, slots, 2)
	require.Equal(t, uint32(50000), slots[0].PriceCents)
	require.Equal(t, uint32(9900), slots[1].PriceCents)
}

func TestStartsInFuture(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("tomorrow may be cancelled", func(t *testing.T) {
		ok, err := schedule.StartsInFuture("2024-06-16", "10:00", now)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("yesterday may not", func(t *testing.T) {
		ok, err := schedule.StartsInFuture("2024-06-14", "10:00", now)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("today with a past start may not", func(t *testing.T) {
		ok, err := schedule.StartsInFuture("2024-06-15", "10:00", now)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("today starting exactly now may not", func(t *testing.T) {
		ok, err := schedule.StartsInFuture("2024-06-15", "12:00", now)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("today later is fine", func(t *testing.T) {
		ok, err := schedule.StartsInFuture("2024-06-15", "18:00", now)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := schedule.StartsInFuture("15-06-2024", "10:00", now)
		require.Error(t, err)
		_, err = schedule.StartsInFuture("2024-06-15", "25:00", now)
		require.Error(t, err)
	})
}
