package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

type StageRepository struct {
	DB *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{DB: db}
}

func (r *StageRepository) FindByID(ctx context.Context, id string) (*entity.Stage, error) {
	query := `
		SELECT id, name, COALESCE(role, ''), "order", alert_threshold_days, COALESCE(color, '')
		FROM stages
		WHERE id = $1
	`

	s, err := scanStage(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrStageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stage lookup failed: %w", err)
	}

	return s, nil
}

func (r *StageRepository) List(ctx context.Context) ([]entity.Stage, error) {
	query := `
		SELECT id, name, COALESCE(role, ''), "order", alert_threshold_days, COALESCE(color, '')
		FROM stages
		ORDER BY "order"
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stage list failed: %w", err)
	}
	defer rows.Close()

	var stages []entity.Stage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("stage row scan failed: %w", err)
		}
		stages = append(stages, *s)
	}

	return stages, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStage(row rowScanner) (*entity.Stage, error) {
	var s entity.Stage
	var role string

	err := row.Scan(&s.ID, &s.Name, &role, &s.Order, &s.AlertThresholdDays, &s.Color)
	if err != nil {
		return nil, err
	}

	if role == "" {
		s.Role = entity.RoleFromName(s.Name)
	} else {
		s.Role = entity.StageRole(role)
	}

	return &s, nil
}
