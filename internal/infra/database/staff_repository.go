package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

// StaffRepository is the read-only staff directory. The engine never writes
// to these tables; the reporting side of the product owns them.
type StaffRepository struct {
	DB *sql.DB
}

func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{DB: db}
}

func (r *StaffRepository) ListMembers(ctx context.Context) ([]entity.StaffMember, error) {
	query := `
		SELECT id, name, COALESCE(role, ''), COALESCE(phone, '')
		FROM staff_members
		ORDER BY name
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("staff list failed: %w", err)
	}
	defer rows.Close()

	var members []entity.StaffMember
	for rows.Next() {
		var m entity.StaffMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Phone); err != nil {
			return nil, fmt.Errorf("staff row scan failed: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (r *StaffRepository) StatsByMember(ctx context.Context) (map[string]entity.StaffStats, error) {
	query := `
		SELECT member_id, reliability, events_month, avg_response_minutes
		FROM staff_stats
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("staff stats scan failed: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]entity.StaffStats)
	for rows.Next() {
		var memberID string
		var s entity.StaffStats
		if err := rows.Scan(&memberID, &s.Reliability, &s.EventsMonth, &s.AvgResponseMinutes); err != nil {
			return nil, fmt.Errorf("staff stats row scan failed: %w", err)
		}
		stats[memberID] = s
	}

	return stats, rows.Err()
}
