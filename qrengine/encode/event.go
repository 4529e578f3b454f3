package encode

import (
	"fmt"
	"strings"
)

// Event renders an iCalendar VEVENT record. DTSTART is date-only when no
// time was given; the LOCATION line is always present, possibly empty.
//
// Same two-path contract as VCard: unrepresentable field values fall back
// to a plain-text event summary.
func Event(title, date, tm, location string) string {
	record, err := eventRecord(title, date, tm, location)
	if err != nil {
		return eventFallback(title, date, tm, location)
	}
	return record
}

func eventRecord(title, date, tm, location string) (string, error) {
	summary, err := escapeValue(title)
	if err != nil {
		return "", fmt.Errorf("title: %w", err)
	}
	loc, err := escapeValue(location)
	if err != nil {
		return "", fmt.Errorf("location: %w", err)
	}

	stamp := strings.ReplaceAll(date, "-", "")
	if tm != "" {
		stamp = fmt.Sprintf("%sT%s00", stamp, strings.ReplaceAll(tm, ":", ""))
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"SUMMARY:" + summary,
		"DTSTART:" + stamp,
		"LOCATION:" + loc,
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\n"), nil
}

func eventFallback(title, date, tm, location string) string {
	var b strings.Builder
	b.WriteString("Event: " + title)
	b.WriteString("\nDate: " + date)
	if tm != "" {
		b.WriteString("\nTime: " + tm)
	}
	if location != "" {
		b.WriteString("\nLocation: " + location)
	}
	return b.String()
}
