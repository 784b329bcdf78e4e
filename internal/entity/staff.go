package entity

import "context"

type StaffMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
}

// StaffStats are aggregated per member by the reporting side of the product.
// The engine only reads them.
type StaffStats struct {
	Reliability        int `json:"reliability"`
	EventsMonth        int `json:"events_month"`
	AvgResponseMinutes int `json:"avg_response_minutes"`
}

// ReplacementCandidate is computed per query and never persisted.
type ReplacementCandidate struct {
	StaffMember
	Reliability        int `json:"reliability"`
	EventsMonth        int `json:"events_month"`
	AvgResponseMinutes int `json:"avg_response_minutes"`
}

// StaffDirectory is the read-only staff collaborator.
type StaffDirectory interface {
	ListMembers(ctx context.Context) ([]StaffMember, error)
	StatsByMember(ctx context.Context) (map[string]StaffStats, error)
}
