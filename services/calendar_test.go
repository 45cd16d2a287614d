package services

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEasterSunday(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2023, date(2023, time.April, 9)},
		{2024, date(2024, time.March, 31)},
		{2025, date(2025, time.April, 20)},
		{2026, date(2026, time.April, 5)},
	}
	for _, tt := range tests {
		if got := easterSunday(tt.year); !got.Equal(tt.want) {
			t.Errorf("easterSunday(%d) = %s, want %s", tt.year, got.Format(dateLayout), tt.want.Format(dateLayout))
		}
	}
}

func TestCalendar_IsBusinessDay(t *testing.T) {
	cal := NewCalendar(8)
	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"regular monday", date(2025, time.March, 10), true},
		{"saturday", date(2025, time.March, 8), false},
		{"sunday", date(2025, time.March, 9), false},
		{"new year", date(2025, time.January, 1), false},
		{"good friday 2025", date(2025, time.April, 18), false},
		{"tiradentes", date(2025, time.April, 21), false},
		{"black awareness day 2024", date(2024, time.November, 20), false},
		{"november 20 before 2024", date(2023, time.November, 20), true},
		{"christmas", date(2025, time.December, 25), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.IsBusinessDay(tt.day); got != tt.want {
				t.Errorf("IsBusinessDay(%s) = %v, want %v", tt.day.Format(dateLayout), got, tt.want)
			}
		})
	}
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		day  time.Time
		want time.Time
	}{
		{date(2025, time.January, 1), date(2024, time.December, 30)},
		{date(2025, time.January, 6), date(2025, time.January, 6)},
		{date(2025, time.January, 12), date(2025, time.January, 6)},
	}
	for _, tt := range tests {
		if got := MondayOf(tt.day); !got.Equal(tt.want) {
			t.Errorf("MondayOf(%s) = %s, want %s", tt.day.Format(dateLayout), got.Format(dateLayout), tt.want.Format(dateLayout))
		}
	}
}

func TestCalendar_WeeklyBreakdown(t *testing.T) {
	cal := NewCalendar(8)

	t.Run("starts on monday", func(t *testing.T) {
		weeks := cal.WeeklyBreakdown(date(2025, time.January, 6), 1)
		if len(weeks) != 4 {
			t.Fatalf("expected 4 weeks, got %d", len(weeks))
		}
		for i, w := range weeks {
			if w.Number != i+1 {
				t.Errorf("week %d: number = %d", i, w.Number)
			}
			if w.AvailableHours != 40 {
				t.Errorf("week %d: available = %v, want 40", w.Number, w.AvailableHours)
			}
			if w.End.Sub(w.Start) != 6*24*time.Hour {
				t.Errorf("week %d: end should be the Sunday after start", w.Number)
			}
		}
	})

	t.Run("mid-week start includes holiday", func(t *testing.T) {
		weeks := cal.WeeklyBreakdown(date(2025, time.January, 1), 1)
		if len(weeks) != 5 {
			t.Fatalf("expected 5 weeks, got %d", len(weeks))
		}
		first := weeks[0]
		if !first.Start.Equal(date(2024, time.December, 30)) {
			t.Errorf("first week start = %s, want 2024-12-30", first.Start.Format(dateLayout))
		}
		if first.BusinessDays != 4 || first.AvailableHours != 32 {
			t.Errorf("first week = %d days / %vh, want 4 / 32", first.BusinessDays, first.AvailableHours)
		}
		if len(first.Holidays) != 1 || !first.Holidays[0].Equal(date(2025, time.January, 1)) {
			t.Errorf("first week holidays = %v, want [2025-01-01]", first.Holidays)
		}
	})

	t.Run("good friday week", func(t *testing.T) {
		weeks := cal.WeeklyBreakdown(date(2025, time.April, 14), 1)
		if weeks[0].AvailableHours != 32 {
			t.Errorf("Good Friday week available = %v, want 32", weeks[0].AvailableHours)
		}
	})

	t.Run("custom hours per day", func(t *testing.T) {
		weeks := NewCalendar(6).WeeklyBreakdown(date(2025, time.January, 6), 1)
		if weeks[0].AvailableHours != 30 {
			t.Errorf("available = %v, want 30", weeks[0].AvailableHours)
		}
	})
}

func TestCalendar_BusinessHoursForPeriod(t *testing.T) {
	cal := NewCalendar(8)
	months := cal.BusinessHoursForPeriod(date(2025, time.January, 15), 2)
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	if months[0].Month != time.January || months[0].Hours != 104 {
		t.Errorf("January = %v/%v, want January/104", months[0].Month, months[0].Hours)
	}
	if months[1].Month != time.February || months[1].Hours != 160 {
		t.Errorf("February = %v/%v, want February/160", months[1].Month, months[1].Hours)
	}
}

func TestPeriodEnd_YearRollover(t *testing.T) {
	got := PeriodEnd(date(2025, time.November, 17), 3)
	if !got.Equal(date(2026, time.February, 1)) {
		t.Errorf("PeriodEnd = %s, want 2026-02-01", got.Format(dateLayout))
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-03-10", "2025-03-10T00:00:00Z", "2025-03-10 00:00:00.000Z"} {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", in, err)
			continue
		}
		if !got.Equal(date(2025, time.March, 10)) {
			t.Errorf("ParseDate(%q) = %s", in, got)
		}
	}
	if _, err := ParseDate("10/03/2025"); err == nil {
		t.Error("expected error for dd/mm/yyyy input")
	}
}
