package hours

import (
	"testing"
	"time"
)

// at builds a local time on a specific 2026 date. The dates below are
// chosen so the weekday is obvious from the name.
func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local)
}

var (
	saturday  = time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local)
	sunday    = time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
	monday    = time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	tuesday   = time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	wednesday = time.Date(2026, 9, 2, 0, 0, 0, 0, time.Local)
	thursday  = time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local)
	friday    = time.Date(2026, 9, 4, 0, 0, 0, 0, time.Local)
)

func TestIsOpen(t *testing.T) {
	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"monday noon", at(monday, 12, 0), true},
		{"monday mid-window", at(monday, 15, 30), true},
		{"monday last minute", at(monday, 17, 59), true},
		{"monday at close", at(monday, 18, 0), false},
		{"monday before open", at(monday, 11, 59), false},
		{"wednesday noon", at(wednesday, 12, 0), true},
		{"saturday afternoon", at(saturday, 16, 0), true},
		{"sunday noon", at(sunday, 13, 0), false},
		{"tuesday noon", at(tuesday, 13, 0), false},
		{"thursday noon", at(thursday, 13, 0), false},
		{"friday noon", at(friday, 13, 0), false},
		{"saturday midnight", at(saturday, 0, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOpen(tc.t); got != tc.want {
				t.Errorf("IsOpen(%v) = %v, want %v", tc.t, got, tc.want)
			}
		})
	}
}

// NextOpenDay always points at a strictly later day, even when the
// storefront is still open today.
func TestNextOpenDay(t *testing.T) {
	cases := []struct {
		from time.Time
		want string
	}{
		{saturday, "الاثنين"},
		{sunday, "الاثنين"},
		{monday, "الأربعاء"},
		{tuesday, "الأربعاء"},
		{wednesday, "السبت"},
		{thursday, "السبت"},
		{friday, "السبت"},
	}
	for _, tc := range cases {
		t.Run(tc.from.Weekday().String(), func(t *testing.T) {
			if got := NextOpenDay(at(tc.from, 13, 0)); got != tc.want {
				t.Errorf("NextOpenDay(%s) = %q, want %q", tc.from.Weekday(), got, tc.want)
			}
		})
	}
}

func TestDayName(t *testing.T) {
	if got := DayName(time.Sunday); got != "الأحد" {
		t.Errorf("DayName(Sunday) = %q", got)
	}
	if got := DayName(time.Friday); got != "الجمعة" {
		t.Errorf("DayName(Friday) = %q", got)
	}
}
