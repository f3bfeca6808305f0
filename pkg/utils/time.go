package utils

import "time"

// DateLayout is the day key format used throughout the ledger.
const DateLayout = "2006-01-02"

// Today returns the current UTC date key.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// AddDays shifts a date key by n days. An unparseable input is returned
// unchanged.
func AddDays(date string, n int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// DateRange returns every date key from 'from' to 'to' inclusive, in order.
// An inverted or unparseable range yields an empty slice.
func DateRange(from, to string) []string {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}
