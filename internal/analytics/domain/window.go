package domain

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateWindow bounds a report to an inclusive date range. A nil *DateWindow
// means all time; a zero bound leaves that side open.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// ParseDateWindow builds a window from YYYY-MM-DD strings. The start is
// widened to midnight UTC, the end to the last instant of its day, so both
// dates are inclusive. Empty strings leave that bound open.
func ParseDateWindow(startDate, endDate string) (*DateWindow, error) {
	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)
	if startDate == "" && endDate == "" {
		return nil, nil
	}

	var window DateWindow
	if startDate != "" {
		start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
		if err != nil {
			return nil, ErrInvalidWindow
		}
		window.Start = start
	}
	if endDate != "" {
		end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
		if err != nil {
			return nil, ErrInvalidWindow
		}
		window.End = end.Add(24*time.Hour - time.Nanosecond)
	}
	if !window.Start.IsZero() && !window.End.IsZero() && window.Start.After(window.End) {
		return nil, ErrInvalidWindow
	}
	return &window, nil
}

// LastDays returns a window covering the n days ending now.
func LastDays(now time.Time, n int) *DateWindow {
	return &DateWindow{
		Start: now.UTC().AddDate(0, 0, -n),
		End:   now.UTC(),
	}
}
