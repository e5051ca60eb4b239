package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunridge-camp/portal-api/internal/domain"
)

func testDays() []domain.CampDate {
	return []domain.CampDate{
		{Date: "2026-06-15"},
		{Date: "2026-06-16", Label: "Water day"},
		{Date: "2026-06-17"},
	}
}

func TestResolver_Available(t *testing.T) {
	blocked := []domain.BlockedSession{{Date: "2026-06-15", Session: domain.SessionAfternoon}}
	rentals := []domain.GymRental{{Date: "2026-06-16", Session: domain.SessionMorning, Available: false}}
	registered := map[string][]domain.Session{
		"2026-06-17": {domain.SessionMorning},
	}
	r := NewResolver(testDays(), blocked, rentals, registered)

	assert.True(t, r.Available("2026-06-15", domain.SessionMorning))
	assert.False(t, r.Available("2026-06-15", domain.SessionAfternoon)) // office blocked
	assert.False(t, r.Available("2026-06-16", domain.SessionMorning))   // gym rented out
	assert.True(t, r.Available("2026-06-16", domain.SessionAfternoon))
	assert.False(t, r.Available("2026-06-17", domain.SessionMorning)) // already registered
	assert.False(t, r.Available("2026-06-18", domain.SessionMorning)) // not a camp day
}

func TestResolver_GymFailsOpen(t *testing.T) {
	// No rental row for the slot means the gym does not restrict it.
	rentals := []domain.GymRental{{Date: "2026-06-15", Session: domain.SessionMorning, Available: true}}
	r := NewResolver(testDays(), nil, rentals, nil)

	assert.True(t, r.Available("2026-06-15", domain.SessionMorning))
	assert.True(t, r.Available("2026-06-15", domain.SessionAfternoon))
	assert.True(t, r.Available("2026-06-16", domain.SessionMorning))
}

func TestResolver_DaysExcludesFullyBlocked(t *testing.T) {
	blocked := []domain.BlockedSession{
		{Date: "2026-06-16", Session: domain.SessionMorning},
		{Date: "2026-06-16", Session: domain.SessionAfternoon},
		{Date: "2026-06-17", Session: domain.SessionMorning},
	}
	r := NewResolver(testDays(), blocked, nil, nil)

	days := r.Days()
	require.Len(t, days, 2)
	assert.Equal(t, "2026-06-15", days[0].Date)
	assert.Equal(t, "2026-06-17", days[1].Date)
	assert.Equal(t, []domain.Session{domain.SessionAfternoon}, days[1].Open)
}

func TestResolver_DaysSortedWithBookings(t *testing.T) {
	registered := map[string][]domain.Session{
		"2026-06-15": {domain.SessionMorning},
	}
	r := NewResolver(testDays(), nil, nil, registered)

	days := r.Days()
	require.Len(t, days, 3)
	assert.Equal(t, "2026-06-15", days[0].Date)
	assert.Equal(t, []domain.Session{domain.SessionAfternoon}, days[0].Open)
	assert.Equal(t, []domain.Session{domain.SessionMorning}, days[0].Booked)
	assert.Equal(t, "Water day", days[1].Label)
}

func TestResolver_SelectableSessionsIgnoresOwnRegistrations(t *testing.T) {
	registered := map[string][]domain.Session{
		"2026-06-15": {domain.SessionMorning, domain.SessionAfternoon},
	}
	r := NewResolver(testDays(), nil, nil, registered)

	assert.Empty(t, r.OpenSessions("2026-06-15"))
	assert.Equal(t, domain.Sessions, r.SelectableSessions("2026-06-15"))
	assert.Nil(t, r.SelectableSessions("2026-06-20"))
}
