package services

import (
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const dateLayout = "2006-01-02"

// Week describes one Monday-to-Sunday week of a project timeline.
type Week struct {
	Number         int
	Start          time.Time
	End            time.Time
	BusinessDays   int
	AvailableHours float64
	Holidays       []time.Time
}

// MarshalJSON renders dates as YYYY-MM-DD.
func (w Week) MarshalJSON() ([]byte, error) {
	hols := make([]string, 0, len(w.Holidays))
	for _, h := range w.Holidays {
		hols = append(hols, h.Format(dateLayout))
	}
	return json.Marshal(struct {
		Number         int      `json:"week_number"`
		Start          string   `json:"week_start"`
		End            string   `json:"week_end"`
		BusinessDays   int      `json:"business_days"`
		AvailableHours float64  `json:"available_hours"`
		Holidays       []string `json:"holidays"`
	}{w.Number, w.Start.Format(dateLayout), w.End.Format(dateLayout), w.BusinessDays, w.AvailableHours, hols})
}

// MonthHours is the number of business hours in one calendar month of a period.
type MonthHours struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Hours float64    `json:"hours"`
}

// Calendar answers business-day questions for Brazil. It caches the
// holiday set per year and is safe for concurrent use.
type Calendar struct {
	HoursPerDay int

	mu     sync.Mutex
	byYear map[int]map[string]string
}

// NewCalendar returns a Calendar using hoursPerDay (8 when <= 0).
func NewCalendar(hoursPerDay int) *Calendar {
	if hoursPerDay <= 0 {
		hoursPerDay = 8
	}
	return &Calendar{HoursPerDay: hoursPerDay, byYear: make(map[int]map[string]string)}
}

// HolidayName returns the holiday name for day, if any.
func (c *Calendar) HolidayName(day time.Time) (string, bool) {
	c.mu.Lock()
	set, ok := c.byYear[day.Year()]
	if !ok {
		set = make(map[string]string)
		for _, h := range brazilHolidays(day.Year()) {
			set[h.Date.Format(dateLayout)] = h.Name
		}
		c.byYear[day.Year()] = set
	}
	c.mu.Unlock()

	name, found := set[day.Format(dateLayout)]
	return name, found
}

// IsHoliday reports whether day is a national holiday.
func (c *Calendar) IsHoliday(day time.Time) bool {
	_, ok := c.HolidayName(day)
	return ok
}

// IsBusinessDay reports whether day is Monday..Friday and not a holiday.
func (c *Calendar) IsBusinessDay(day time.Time) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(day)
}

// MondayOf returns the Monday of the week containing day, at midnight UTC.
func MondayOf(day time.Time) time.Time {
	d := dateOnly(day)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekHours returns the available hours in the week starting at monday and
// the holidays that fall within it (weekends included).
func (c *Calendar) WeekHours(monday time.Time) (float64, []time.Time) {
	var days int
	var hols []time.Time
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		if c.IsHoliday(day) {
			hols = append(hols, day)
		}
		if c.IsBusinessDay(day) {
			days++
		}
	}
	return float64(days * c.HoursPerDay), hols
}

// PeriodEnd returns the first day of the month that follows start by months
// calendar months. Weeks whose Monday is before this date belong to the period.
func PeriodEnd(start time.Time, months int) time.Time {
	end := dateOnly(start)
	for i := 0; i < months; i++ {
		end = time.Date(end.Year(), end.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return end
}

// WeeklyBreakdown lists the project weeks from the Monday of start's week
// while the Monday is before PeriodEnd(start, months).
func (c *Calendar) WeeklyBreakdown(start time.Time, months int) []Week {
	end := PeriodEnd(start, months)

	var weeks []Week
	number := 1
	for monday := MondayOf(start); monday.Before(end); monday = monday.AddDate(0, 0, 7) {
		hours, hols := c.WeekHours(monday)
		weeks = append(weeks, Week{
			Number:         number,
			Start:          monday,
			End:            monday.AddDate(0, 0, 6),
			BusinessDays:   int(hours) / c.HoursPerDay,
			AvailableHours: hours,
			Holidays:       hols,
		})
		number++
	}
	return weeks
}

// BusinessHoursForPeriod returns business hours per calendar month, counting
// from start's day in the first month and from day 1 afterwards.
func (c *Calendar) BusinessHoursForPeriod(start time.Time, months int) []MonthHours {
	current := dateOnly(start)
	out := make([]MonthHours, 0, months)
	for i := 0; i < months; i++ {
		next := time.Date(current.Year(), current.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		var days int
		for d := current; d.Before(next); d = d.AddDate(0, 0, 1) {
			if c.IsBusinessDay(d) {
				days++
			}
		}
		out = append(out, MonthHours{
			Year:  current.Year(),
			Month: current.Month(),
			Hours: float64(days * c.HoursPerDay),
		})
		current = next
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date (or RFC 3339 / PocketBase datetime) at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{dateLayout, time.RFC3339, "2006-01-02 15:04:05.000Z", "2006-01-02 15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	_, err := time.Parse(dateLayout, s)
	return time.Time{}, err
}
