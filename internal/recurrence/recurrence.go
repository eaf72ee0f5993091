// Package recurrence computes the next occurrence of a recurring financial
// event from a calendar rule and a reference instant. It is pure: no I/O, no
// clock reads, no side effects.
package recurrence

import "time"

// Frequency values understood by the calculator.
const (
	Daily     = "daily"
	Weekly    = "weekly"
	Biweekly  = "biweekly"
	Monthly   = "monthly"
	Quarterly = "quarterly"
	Yearly    = "yearly"
)

// Rule describes when a recurring event repeats. DayOfWeek applies to weekly
// rules, DayOfMonth to monthly/quarterly/yearly, MonthOfYear to yearly.
type Rule struct {
	Frequency   string
	DayOfWeek   *int // 0 (Sunday) - 6 (Saturday)
	DayOfMonth  *int // 1-31
	MonthOfYear *int // 1-12
	StartDate   time.Time
	EndDate     *time.Time
}

// Next returns the occurrence strictly after ref.
//
// If the rule has not started yet (StartDate after ref), StartDate is
// returned unchanged. A DayOfMonth beyond the target month's length clamps
// to the month's last valid day rather than rolling into the following
// month, so a dayOfMonth=31 monthly rule lands on Apr 30, not May 1.
// Results are normalized to midnight in ref's location.
func Next(rule Rule, ref time.Time) time.Time {
	if rule.StartDate.After(ref) {
		return rule.StartDate
	}

	switch rule.Frequency {
	case Daily:
		return midnight(ref.AddDate(0, 0, 1))

	case Weekly:
		return nextWeekday(ref, rule.DayOfWeek)

	case Biweekly:
		return midnight(ref.AddDate(0, 0, 14))

	case Monthly:
		first := time.Date(ref.Year(), ref.Month()+1, 1, 0, 0, 0, 0, ref.Location())
		return applyDayOfMonth(first, dayOrDefault(rule.DayOfMonth, 1))

	case Quarterly:
		first := time.Date(ref.Year(), nextQuarterMonth(ref.Month()), 1, 0, 0, 0, 0, ref.Location())
		return applyDayOfMonth(first, dayOrDefault(rule.DayOfMonth, 1))

	case Yearly:
		month := time.Month(dayOrDefault(rule.MonthOfYear, 1))
		day := dayOrDefault(rule.DayOfMonth, 1)
		candidate := applyDayOfMonth(time.Date(ref.Year(), month, 1, 0, 0, 0, 0, ref.Location()), day)
		if candidate.After(ref) {
			return candidate
		}
		return applyDayOfMonth(time.Date(ref.Year()+1, month, 1, 0, 0, 0, 0, ref.Location()), day)
	}

	// Unknown frequency: treat as daily so a misconfigured schedule still
	// advances instead of firing forever.
	return midnight(ref.AddDate(0, 0, 1))
}

// Ended reports whether the rule's end date (if any) has passed.
func Ended(rule Rule, ref time.Time) bool {
	return rule.EndDate != nil && rule.EndDate.Before(ref)
}

// nextWeekday returns the next date after ref falling on the target weekday.
// When ref already falls on the target weekday it advances a full week —
// weekly rules never return the reference day itself. A nil target keeps the
// reference's own weekday, yielding a flat seven day step.
func nextWeekday(ref time.Time, target *int) time.Time {
	want := int(ref.Weekday())
	if target != nil {
		want = *target
	}
	days := (want - int(ref.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return midnight(ref.AddDate(0, 0, days))
}

// nextQuarterMonth returns the first month of the quarter after the one
// containing m (Jan, Apr, Jul, Oct), wrapping Q4 into January via the
// normalization in time.Date.
func nextQuarterMonth(m time.Month) time.Month {
	q := (int(m) - 1) / 3
	return time.Month(q*3 + 4)
}

// applyDayOfMonth sets the day on the first-of-month instant, clamping to
// the month's last valid day.
func applyDayOfMonth(firstOfMonth time.Time, day int) time.Time {
	last := daysIn(firstOfMonth.Year(), firstOfMonth.Month(), firstOfMonth.Location())
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day, 0, 0, 0, 0, firstOfMonth.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayOrDefault(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}
