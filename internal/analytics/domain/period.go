package domain

import (
	"strings"
	"time"
)

// Period is the closed set of report lookback windows. Wire values are
// parsed against this allow-list; nothing user-supplied ever reaches SQL.
type Period int

const (
	Last7Days Period = iota
	Last30Days
	Last90Days
	Last365Days
)

// DefaultPeriod is applied when the client omits the period parameter.
const DefaultPeriod = Last30Days

var periodDays = map[Period]int{
	Last7Days:   7,
	Last30Days:  30,
	Last90Days:  90,
	Last365Days: 365,
}

var periodByWire = map[string]Period{
	"7 days":   Last7Days,
	"30 days":  Last30Days,
	"90 days":  Last90Days,
	"365 days": Last365Days,
}

// ParsePeriod maps a wire string like "30 days" onto the enum.
func ParsePeriod(raw string) (Period, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultPeriod, nil
	}
	period, ok := periodByWire[raw]
	if !ok {
		return 0, ErrInvalidPeriod
	}
	return period, nil
}

// Days returns the lookback length in days.
func (p Period) Days() int {
	if days, ok := periodDays[p]; ok {
		return days
	}
	return periodDays[DefaultPeriod]
}

// CutoffFrom returns the inclusive lower bound for the period ending now.
func (p Period) CutoffFrom(now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, -p.Days())
}

// String returns the wire representation.
func (p Period) String() string {
	for wire, period := range periodByWire {
		if period == p {
			return wire
		}
	}
	return "30 days"
}
