package schedule

import "time"

// Tokyo is the fixed UTC+9 zone the demo resets in. A fixed offset keeps the
// boundary independent of the host's tz database.
var Tokyo = time.FixedZone("UTC+9", 9*60*60)

// DefaultDaily resets at 05:00 UTC+9.
var DefaultDaily = Daily{Hour: 5, Location: Tokyo}

// Daily is a wall-clock boundary that recurs every day at Hour:00 in Location.
type Daily struct {
	Hour     int
	Location *time.Location
}

// Next returns the first boundary strictly after from, or from's own day
// boundary if from is before it. The result is in UTC.
func (d Daily) Next(from time.Time) time.Time {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	local := from.In(loc)
	target := time.Date(local.Year(), local.Month(), local.Day(), d.Hour, 0, 0, 0, loc)
	if from.Before(target) {
		return target.UTC()
	}
	return target.Add(24 * time.Hour).UTC()
}
