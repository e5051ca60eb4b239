// Package booking holds the registration selection state and the pricing
// rules applied to it.
package booking

import (
	"sort"
	"time"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/schedule"
)

const dayLayout = "2006-01-02"

// Selection maps a camp date to the set of sessions picked for it. It is
// mutated interactively and persisted as a draft until the order is
// submitted or discarded.
type Selection map[string]map[domain.Session]bool

func NewSelection() Selection {
	return make(Selection)
}

func (sel Selection) Has(date string, s domain.Session) bool {
	return sel[date][s]
}

func (sel Selection) add(date string, s domain.Session) {
	if sel[date] == nil {
		sel[date] = make(map[domain.Session]bool, 2)
	}
	sel[date][s] = true
}

func (sel Selection) remove(date string, s domain.Session) {
	delete(sel[date], s)
	if len(sel[date]) == 0 {
		delete(sel, date)
	}
}

// Toggle flips one slot. Slots the camper can't newly select (blocked, gym
// closed, or already registered) are left untouched.
func (sel Selection) Toggle(r *schedule.Resolver, date string, s domain.Session) {
	if sel.Has(date, s) {
		sel.remove(date, s)
		return
	}
	if !r.Available(date, s) {
		return
	}
	sel.add(date, s)
}

// ToggleBoth is the "whole day" checkbox: if every open session of the date
// is already selected it deselects them, otherwise it selects all open
// sessions. Pre-existing registrations are never touched, so with nothing
// pre-registered the operation is its own inverse.
func (sel Selection) ToggleBoth(r *schedule.Resolver, date string) {
	open := r.OpenSessions(date)
	if len(open) == 0 {
		return
	}

	all := true
	for _, s := range open {
		if !sel.Has(date, s) {
			all = false
			break
		}
	}

	for _, s := range open {
		if all {
			sel.remove(date, s)
		} else {
			sel.add(date, s)
		}
	}
}

// SelectFullWeek selects every open session Monday through Friday of the week
// containing date.
func (sel Selection) SelectFullWeek(r *schedule.Resolver, date string) {
	for _, d := range WeekDays(WeekStart(date)) {
		for _, s := range r.OpenSessions(d) {
			sel.add(d, s)
		}
	}
}

// ClearWeek drops every selection in the week containing date.
func (sel Selection) ClearWeek(date string) {
	for _, d := range WeekDays(WeekStart(date)) {
		for _, s := range domain.Sessions {
			sel.remove(d, s)
		}
	}
}

// TotalSessions counts selected slots across all dates, for one camper.
func (sel Selection) TotalSessions() int {
	n := 0
	for _, sessions := range sel {
		n += len(sessions)
	}
	return n
}

// Dates returns the selected dates in ascending order.
func (sel Selection) Dates() []string {
	dates := make([]string, 0, len(sel))
	for d := range sel {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// SessionsOn returns the selected sessions for a date in display order.
func (sel Selection) SessionsOn(date string) []domain.Session {
	var out []domain.Session
	for _, s := range domain.Sessions {
		if sel.Has(date, s) {
			out = append(out, s)
		}
	}
	return out
}

// WeekStart returns the Monday of the week containing date. Malformed dates
// map to themselves so a bad key can't claim a whole week.
func WeekStart(date string) string {
	t, err := time.Parse(dayLayout, date)
	if err != nil {
		return date
	}
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset).Format(dayLayout)
}

// WeekDays returns Monday through Friday starting at weekStart.
func WeekDays(weekStart string) []string {
	t, err := time.Parse(dayLayout, weekStart)
	if err != nil {
		return []string{weekStart}
	}
	days := make([]string, 5)
	for i := range days {
		days[i] = t.AddDate(0, 0, i).Format(dayLayout)
	}
	return days
}
