package booking

import (
	"github.com/sunridge-camp/portal-api/internal/schedule"
)

// PriceConfig is the content-managed pricing input.
type PriceConfig struct {
	SessionCostCents int64
	WeekDiscountPct  int
}

type Quote struct {
	TotalSessions int   `json:"total_sessions"`
	OriginalCents int64 `json:"original_cents"`
	FullWeeks     int   `json:"full_weeks"`
	DiscountCents int64 `json:"discount_cents"`
	FinalCents    int64 `json:"final_cents"`
}

// Price turns a selection plus camper count into a total. Each calendar week
// (Mon-Fri) in which every selectable session of every open camp day is
// covered earns the week discount on that week's session cost. Two or more
// full weeks each earn the same flat rate; the rate does not escalate.
func Price(sel Selection, camperCount int, r *schedule.Resolver, cfg PriceConfig) Quote {
	q := Quote{TotalSessions: sel.TotalSessions() * camperCount}
	q.OriginalCents = int64(q.TotalSessions) * cfg.SessionCostCents

	for _, ws := range selectedWeeks(sel) {
		weekSessions, full := weekStatus(sel, r, ws)
		if !full || weekSessions == 0 {
			continue
		}
		q.FullWeeks++
		weekCents := int64(weekSessions*camperCount) * cfg.SessionCostCents
		q.DiscountCents += roundPct(weekCents, cfg.WeekDiscountPct)
	}

	q.FinalCents = q.OriginalCents - q.DiscountCents
	if q.FinalCents < 0 {
		q.FinalCents = 0
	}

	return q
}

// weekStatus counts the week's selected sessions and reports whether the week
// is full: every weekday that is an open camp day has all of its selectable
// sessions covered, where a session counts as covered when it is selected or
// the camper already holds a registration for it.
func weekStatus(sel Selection, r *schedule.Resolver, weekStart string) (sessions int, full bool) {
	full = true
	sawCampDay := false

	for _, d := range WeekDays(weekStart) {
		sessions += len(sel.SessionsOn(d))

		if !r.IsCampDay(d) || r.FullyBlocked(d) {
			continue
		}
		selectable := r.SelectableSessions(d)
		if len(selectable) == 0 {
			continue
		}
		sawCampDay = true
		for _, s := range selectable {
			if !sel.Has(d, s) && !r.IsRegistered(d, s) {
				full = false
			}
		}
	}

	return sessions, full && sawCampDay
}

func selectedWeeks(sel Selection) []string {
	seen := make(map[string]bool)
	var weeks []string
	for _, d := range sel.Dates() {
		ws := WeekStart(d)
		if !seen[ws] {
			seen[ws] = true
			weeks = append(weeks, ws)
		}
	}
	return weeks
}

// ProrateDiscount splits the order discount across rows in proportion to each
// row's base amount. The last row absorbs the rounding remainder so the row
// discounts always sum exactly to the order discount.
func ProrateDiscount(rowBaseCents []int64, originalCents, discountCents int64) []int64 {
	out := make([]int64, len(rowBaseCents))
	if len(out) == 0 || originalCents == 0 || discountCents == 0 {
		return out
	}

	var allocated int64
	for i, base := range rowBaseCents {
		if i == len(rowBaseCents)-1 {
			out[i] = discountCents - allocated
			break
		}
		out[i] = roundRatio(base, discountCents, originalCents)
		allocated += out[i]
	}

	return out
}

// roundPct returns cents * pct%, rounded half up.
func roundPct(cents int64, pct int) int64 {
	return (cents*int64(pct) + 50) / 100
}

// roundRatio returns base * num/den, rounded half up.
func roundRatio(base, num, den int64) int64 {
	return (base*num + den/2) / den
}
