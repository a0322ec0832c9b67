// Package hours decides whether the storefront accepts orders right now.
// The rule is a pure function of wall-clock time; callers re-evaluate on
// a periodic tick. Admin sessions bypass the gate entirely - that
// exception lives with the caller, not here.
package hours

import "time"

// Ordering days: Saturday, Monday, Wednesday, from 12:00 to 18:00.
var orderingDays = map[time.Weekday]bool{
	time.Monday:    true,
	time.Wednesday: true,
	time.Saturday:  true,
}

const (
	// OpenHour and CloseHour bound the ordering window: [12, 18).
	OpenHour  = 12
	CloseHour = 18
)

// dayNames maps weekdays to the Arabic names shown in the UI.
var dayNames = map[time.Weekday]string{
	time.Sunday:    "الأحد",
	time.Monday:    "الاثنين",
	time.Tuesday:   "الثلاثاء",
	time.Wednesday: "الأربعاء",
	time.Thursday:  "الخميس",
	time.Friday:    "الجمعة",
	time.Saturday:  "السبت",
}

// Display copy for the two weekly schedules. Ordering is when the cart
// accepts orders; pickup is when customers collect them.
const (
	OrderingDaysLabel  = "السبت - الاثنين - الأربعاء"
	OrderingHoursLabel = "من 12:00 ظهراً إلى 6:00 مساءً"
	PickupDaysLabel    = "الأحد - الثلاثاء - الخميس"
	PickupHoursLabel   = "من 8:00 صباحاً إلى 12:00 ظهراً"
)

// IsOpen reports whether the storefront accepts orders at t (local time).
func IsOpen(t time.Time) bool {
	return orderingDays[t.Weekday()] && t.Hour() >= OpenHour && t.Hour() < CloseHour
}

// NextOpenDay returns the Arabic name of the next ordering weekday
// strictly after t's day, wrapping after 7 days. It deliberately does not
// special-case "still open later today": the rule mirrors the display
// copy, which always points at a future day.
func NextOpenDay(t time.Time) string {
	day := t.Weekday()
	for i := 1; i <= 7; i++ {
		next := time.Weekday((int(day) + i) % 7)
		if orderingDays[next] {
			return dayNames[next]
		}
	}
	return "" // unreachable: orderingDays is non-empty
}

// DayName returns the Arabic display name for a weekday.
func DayName(d time.Weekday) string {
	return dayNames[d]
}
