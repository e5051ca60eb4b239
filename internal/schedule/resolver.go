// Package schedule decides which camp days and half-day sessions a parent may
// select. A slot is open when the office hasn't blocked it, the gym rental
// calendar doesn't close it, and the camper isn't already registered for it.
package schedule

import (
	"sort"

	"github.com/sunridge-camp/portal-api/internal/domain"
)

type slot struct {
	date    string
	session domain.Session
}

type Resolver struct {
	days       map[string]domain.CampDate
	blocked    map[slot]bool
	gym        map[slot]bool // present only when the rental feed has a row
	registered map[slot]bool
}

// NewResolver builds a resolver for one camper's view of the season.
// registered holds the camper's existing non-cancelled registrations; pass nil
// when resolving without camper context (e.g. the public calendar).
func NewResolver(
	days []domain.CampDate,
	blocked []domain.BlockedSession,
	rentals []domain.GymRental,
	registered map[string][]domain.Session,
) *Resolver {
	r := &Resolver{
		days:       make(map[string]domain.CampDate, len(days)),
		blocked:    make(map[slot]bool, len(blocked)),
		gym:        make(map[slot]bool, len(rentals)),
		registered: make(map[slot]bool),
	}

	for _, d := range days {
		r.days[d.Date] = d
	}
	for _, b := range blocked {
		r.blocked[slot{b.Date, b.Session}] = true
	}
	for _, g := range rentals {
		r.gym[slot{g.Date, g.Session}] = g.Available
	}
	for date, sessions := range registered {
		for _, s := range sessions {
			r.registered[slot{date, s}] = true
		}
	}

	return r
}

func (r *Resolver) IsCampDay(date string) bool {
	_, ok := r.days[date]
	return ok
}

func (r *Resolver) IsBlocked(date string, s domain.Session) bool {
	return r.blocked[slot{date, s}]
}

// gymAvailable fails open: a slot with no rental row is unrestricted.
func (r *Resolver) gymAvailable(date string, s domain.Session) bool {
	avail, ok := r.gym[slot{date, s}]
	if !ok {
		return true
	}
	return avail
}

func (r *Resolver) IsRegistered(date string, s domain.Session) bool {
	return r.registered[slot{date, s}]
}

// Available reports whether the camper can newly select the slot.
func (r *Resolver) Available(date string, s domain.Session) bool {
	if !r.IsCampDay(date) {
		return false
	}
	return !r.IsBlocked(date, s) && r.gymAvailable(date, s) && !r.IsRegistered(date, s)
}

// FullyBlocked reports whether both sessions of the date are blocked. Fully
// blocked dates never appear in the selectable list.
func (r *Resolver) FullyBlocked(date string) bool {
	return r.IsBlocked(date, domain.SessionMorning) && r.IsBlocked(date, domain.SessionAfternoon)
}

// OpenSessions lists the sessions of a date that are currently selectable.
func (r *Resolver) OpenSessions(date string) []domain.Session {
	var open []domain.Session
	for _, s := range domain.Sessions {
		if r.Available(date, s) {
			open = append(open, s)
		}
	}
	return open
}

// SelectableSessions lists sessions that are open to anyone on the date,
// ignoring the camper's own registrations. Used for full-week accounting,
// where an already-registered session still counts toward the week.
func (r *Resolver) SelectableSessions(date string) []domain.Session {
	if !r.IsCampDay(date) {
		return nil
	}
	var out []domain.Session
	for _, s := range domain.Sessions {
		if !r.IsBlocked(date, s) && r.gymAvailable(date, s) {
			out = append(out, s)
		}
	}
	return out
}

// Days returns the selectable calendar, sorted by date, excluding fully
// blocked dates.
func (r *Resolver) Days() []domain.DayAvailability {
	out := make([]domain.DayAvailability, 0, len(r.days))
	for date, d := range r.days {
		if r.FullyBlocked(date) {
			continue
		}

		day := domain.DayAvailability{
			Date:  date,
			Label: d.Label,
			Open:  r.OpenSessions(date),
		}
		for _, s := range domain.Sessions {
			if r.IsRegistered(date, s) {
				day.Booked = append(day.Booked, s)
			}
		}
		out = append(out, day)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	return out
}
