package services

import "time"

// Holiday is a named public holiday.
type Holiday struct {
	Date time.Time
	Name string
}

// brazilHolidays returns the Brazilian national public holidays for year.
// State and municipal holidays are not included.
func brazilHolidays(year int) []Holiday {
	d := func(m time.Month, day int) time.Time {
		return time.Date(year, m, day, 0, 0, 0, 0, time.UTC)
	}

	list := []Holiday{
		{d(time.January, 1), "Confraternização Universal"},
		{easterSunday(year).AddDate(0, 0, -2), "Sexta-feira Santa"},
		{d(time.April, 21), "Tiradentes"},
		{d(time.May, 1), "Dia do Trabalhador"},
		{d(time.September, 7), "Independência do Brasil"},
		{d(time.October, 12), "Nossa Senhora Aparecida"},
		{d(time.November, 2), "Finados"},
		{d(time.November, 15), "Proclamação da República"},
	}
	if year >= 2024 {
		list = append(list, Holiday{d(time.November, 20), "Dia Nacional de Zumbi e da Consciência Negra"})
	}
	list = append(list, Holiday{d(time.December, 25), "Natal"})
	return list
}

// easterSunday computes Western Easter with the anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
