package usecase

import (
	"sort"
	"strings"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

const maxReplacementSuggestions = 3

// Missing stats default to a neutral reliability so unknown staff are neither
// favored nor buried.
const defaultReliability = 50

// RankReplacements returns the top candidates for a staffing vacancy. Pure:
// the caller supplies the pool, the already-assigned ids and the stats map.
// An empty result means no eligible replacement.
func RankReplacements(
	vacancyRole string,
	pool []entity.StaffMember,
	assignedIDs []string,
	statsByMember map[string]entity.StaffStats,
) []entity.ReplacementCandidate {
	assigned := make(map[string]bool, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = true
	}

	var candidates []entity.ReplacementCandidate
	for _, member := range pool {
		if assigned[member.ID] {
			continue
		}
		if !roleMatches(member.Role, vacancyRole) {
			continue
		}

		c := entity.ReplacementCandidate{
			StaffMember: member,
			Reliability: defaultReliability,
		}
		if stats, ok := statsByMember[member.ID]; ok {
			c.Reliability = stats.Reliability
			c.EventsMonth = stats.EventsMonth
			c.AvgResponseMinutes = stats.AvgResponseMinutes
		}
		candidates = append(candidates, c)
	}

	// Most reliable first, then the least booked, then the fastest responder.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Reliability != candidates[j].Reliability {
			return candidates[i].Reliability > candidates[j].Reliability
		}
		if candidates[i].EventsMonth != candidates[j].EventsMonth {
			return candidates[i].EventsMonth < candidates[j].EventsMonth
		}
		return candidates[i].AvgResponseMinutes < candidates[j].AvgResponseMinutes
	})

	if len(candidates) > maxReplacementSuggestions {
		candidates = candidates[:maxReplacementSuggestions]
	}
	return candidates
}

// roleMatches is intentionally loose: "Serveur" must match "serveur / chef de
// rang" style labels typed by hand in the staff directory.
func roleMatches(memberRole, vacancyRole string) bool {
	a := strings.ToLower(strings.TrimSpace(memberRole))
	b := strings.ToLower(strings.TrimSpace(vacancyRole))
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
