package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestNextBeforeStart(t *testing.T) {
	start := date(2025, time.June, 1)
	rule := Rule{Frequency: Monthly, DayOfMonth: intPtr(15), StartDate: start}

	got := Next(rule, date(2025, time.March, 10))
	if !got.Equal(start) {
		t.Errorf("expected start date %v, got %v", start, got)
	}
}

func TestNextDaily(t *testing.T) {
	rule := Rule{Frequency: Daily, StartDate: date(2025, time.January, 1)}

	got := Next(rule, time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC))
	want := date(2025, time.March, 11)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNextWeekly(t *testing.T) {
	start := date(2025, time.January, 1)

	t.Run("advances_to_target_weekday", func(t *testing.T) {
		// 2025-03-10 is a Monday; next Friday is 2025-03-14.
		rule := Rule{Frequency: Weekly, DayOfWeek: intPtr(5), StartDate: start}
		got := Next(rule, date(2025, time.March, 10))
		want := date(2025, time.March, 14)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("never_returns_reference_day", func(t *testing.T) {
		// Reference is already a Friday; the result must be the following one.
		rule := Rule{Frequency: Weekly, DayOfWeek: intPtr(5), StartDate: start}
		got := Next(rule, date(2025, time.March, 14))
		want := date(2025, time.March, 21)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("nil_day_of_week_steps_seven_days", func(t *testing.T) {
		rule := Rule{Frequency: Weekly, StartDate: start}
		got := Next(rule, date(2025, time.March, 10))
		want := date(2025, time.March, 17)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestNextBiweekly(t *testing.T) {
	rule := Rule{Frequency: Biweekly, StartDate: date(2025, time.January, 1)}

	got := Next(rule, date(2025, time.March, 10))
	want := date(2025, time.March, 24)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNextMonthly(t *testing.T) {
	start := date(2025, time.January, 1)

	t.Run("lands_on_day_of_month", func(t *testing.T) {
		rule := Rule{Frequency: Monthly, DayOfMonth: intPtr(15), StartDate: start}
		got := Next(rule, date(2025, time.March, 20))
		want := date(2025, time.April, 15)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("clamps_to_short_month", func(t *testing.T) {
		rule := Rule{Frequency: Monthly, DayOfMonth: intPtr(31), StartDate: start}
		got := Next(rule, date(2025, time.April, 15))
		want := date(2025, time.April, 30)
		if !got.Equal(want) {
			t.Errorf("expected Apr 30 clamp, got %v", got)
		}
	})

	t.Run("clamps_february", func(t *testing.T) {
		rule := Rule{Frequency: Monthly, DayOfMonth: intPtr(30), StartDate: start}
		got := Next(rule, date(2025, time.January, 31))
		want := date(2025, time.February, 28)
		if !got.Equal(want) {
			t.Errorf("expected Feb 28 clamp, got %v", got)
		}
	})

	t.Run("leap_year_february", func(t *testing.T) {
		rule := Rule{Frequency: Monthly, DayOfMonth: intPtr(31), StartDate: start}
		got := Next(rule, date(2028, time.January, 31))
		want := date(2028, time.February, 29)
		if !got.Equal(want) {
			t.Errorf("expected Feb 29 clamp in leap year, got %v", got)
		}
	})

	t.Run("defaults_to_first_of_month", func(t *testing.T) {
		rule := Rule{Frequency: Monthly, StartDate: start}
		got := Next(rule, date(2025, time.March, 20))
		want := date(2025, time.April, 1)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("december_wraps_to_january", func(t *testing.T) {
		rule := Rule{Frequency: Monthly, DayOfMonth: intPtr(5), StartDate: start}
		got := Next(rule, date(2025, time.December, 10))
		want := date(2026, time.January, 5)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestNextQuarterly(t *testing.T) {
	start := date(2025, time.January, 1)

	t.Run("mid_quarter", func(t *testing.T) {
		rule := Rule{Frequency: Quarterly, DayOfMonth: intPtr(15), StartDate: start}
		got := Next(rule, date(2025, time.February, 20))
		want := date(2025, time.April, 15)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("fourth_quarter_wraps_to_january", func(t *testing.T) {
		rule := Rule{Frequency: Quarterly, DayOfMonth: intPtr(10), StartDate: start}
		got := Next(rule, date(2025, time.November, 5))
		want := date(2026, time.January, 10)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestNextYearly(t *testing.T) {
	start := date(2024, time.January, 1)
	rule := Rule{Frequency: Yearly, MonthOfYear: intPtr(6), DayOfMonth: intPtr(15), StartDate: start}

	t.Run("later_this_year", func(t *testing.T) {
		got := Next(rule, date(2025, time.March, 1))
		want := date(2025, time.June, 15)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("already_passed_this_year", func(t *testing.T) {
		got := Next(rule, date(2025, time.August, 1))
		want := date(2026, time.June, 15)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("on_the_day_itself", func(t *testing.T) {
		got := Next(rule, date(2025, time.June, 15))
		want := date(2026, time.June, 15)
		if !got.Equal(want) {
			t.Errorf("expected next year, got %v", got)
		}
	})
}

func TestNextNormalizesToMidnight(t *testing.T) {
	rule := Rule{Frequency: Monthly, DayOfMonth: intPtr(15), StartDate: date(2025, time.January, 1)}

	got := Next(rule, time.Date(2025, time.March, 20, 17, 45, 12, 0, time.UTC))
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("expected midnight, got %v", got)
	}
}

func TestEnded(t *testing.T) {
	end := date(2025, time.June, 1)
	rule := Rule{Frequency: Daily, StartDate: date(2025, time.January, 1), EndDate: &end}

	if Ended(rule, date(2025, time.May, 30)) {
		t.Error("rule should not have ended before its end date")
	}
	if !Ended(rule, date(2025, time.June, 2)) {
		t.Error("rule should have ended after its end date")
	}

	open := Rule{Frequency: Daily, StartDate: date(2025, time.January, 1)}
	if Ended(open, date(2099, time.January, 1)) {
		t.Error("open-ended rule should never end")
	}
}
