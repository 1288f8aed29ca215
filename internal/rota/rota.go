package rota

import (
	"time"

	"github.com/shiftops/roster-api/internal/models"
)

// Pattern selects how shift kinds vary across days and roster positions.
type Pattern string

const (
	PatternRotating Pattern = "ROTATING"
	PatternFixed    Pattern = "FIXED"
	PatternCustom   Pattern = "CUSTOM"
)

// Window is the resolved time span and kind for one (day, person) slot.
type Window struct {
	StartTime string
	EndTime   string
	Kind      models.ShiftKind
}

var rotation = [3]models.ShiftKind{models.ShiftMorning, models.ShiftAfternoon, models.ShiftNight}

var windows = map[models.ShiftKind]Window{
	models.ShiftMorning:   {StartTime: "08:00", EndTime: "16:00", Kind: models.ShiftMorning},
	models.ShiftAfternoon: {StartTime: "16:00", EndTime: "00:00", Kind: models.ShiftAfternoon},
	models.ShiftNight:     {StartTime: "00:00", EndTime: "08:00", Kind: models.ShiftNight},
	models.ShiftFullDay:   {StartTime: "08:00", EndTime: "18:00", Kind: models.ShiftFullDay},
}

// Resolve maps a day offset (0-6), a person's roster position and a pattern
// to a concrete shift window. ROTATING staggers the three timed kinds by
// position and advances daily; FIXED keeps each position on one kind;
// anything else resolves to a full day.
func Resolve(dayOffset, personIndex int, pattern Pattern) Window {
	switch pattern {
	case PatternRotating:
		return windows[rotation[(dayOffset+personIndex)%3]]
	case PatternFixed:
		return windows[rotation[personIndex%3]]
	default:
		return windows[models.ShiftFullDay]
	}
}

// WindowFor returns the default time span for a shift kind.
func WindowFor(kind models.ShiftKind) Window {
	if w, ok := windows[kind]; ok {
		return w
	}
	return windows[models.ShiftFullDay]
}

// Day normalises a timestamp to its bare calendar day in its location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the most recent Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekDays expands an anchor date into its 7 consecutive calendar days.
// Weekends are included; rest-day exclusion is a caller policy.
func WeekDays(anchor time.Time) []time.Time {
	start := Day(anchor)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// WeekEnd returns the last day of the week starting at anchor.
func WeekEnd(anchor time.Time) time.Time {
	return Day(anchor).AddDate(0, 0, 6)
}
