package service

import "time"

// DefaultExpiryWarningMonths is the expiresSoon horizon.
const DefaultExpiryWarningMonths = 3

// IsExpired reports whether the first day of the expiry month lies strictly
// before asOf's calendar date. A card is therefore still valid on the 1st
// of its expiry month and expired from the 2nd.
func IsExpired(mes, anio int, asOf time.Time) bool {
	return expiryFirst(mes, anio).Before(calendarDate(asOf))
}

// ExpiresSoon reports asOf < first-of-expiry-month <= asOf + months.
func ExpiresSoon(mes, anio int, asOf time.Time, months int) bool {
	today := calendarDate(asOf)
	exp := expiryFirst(mes, anio)
	return today.Before(exp) && !exp.After(addMonths(today, months))
}

func expiryFirst(mes, anio int) time.Time {
	return time.Date(anio, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// addMonths moves t by n calendar months, clamping the day to the end of
// the target month (Jan 31 + 1 month = Feb 28).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d, last), 0, 0, 0, 0, time.UTC)
}
