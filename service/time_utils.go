package service

import (
	"time"
)

// ResetLocation is the fixed UTC+5:30 zone whose midnight triggers the daily reset
var ResetLocation = time.FixedZone("IST", 5*60*60+30*60)

// GetNextResetTime returns the first local midnight in ResetLocation strictly after now
func GetNextResetTime(now time.Time) time.Time {
	local := now.In(ResetLocation)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, ResetLocation)
}

// CivilDate returns the calendar day of t in ResetLocation as YYYY-MM-DD
func CivilDate(t time.Time) string {
	return t.In(ResetLocation).Format(time.DateOnly)
}
