package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"patentdesk/internal/domain"
	"patentdesk/internal/port"
)

type referenceRepo struct {
	db *sqlx.DB
}

// NewReferenceRepo creates a new PostgreSQL-backed ReferenceRepository.
func NewReferenceRepo(db *sqlx.DB) port.ReferenceRepository {
	return &referenceRepo{db: db}
}

func (r *referenceRepo) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error) {
	var items []domain.ReferenceItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT kind, code, name, parent_code, sort_order FROM reference_items
		 WHERE kind = $1 ORDER BY sort_order, name`, kind)
	if err != nil {
		return nil, fmt.Errorf("referenceRepo.List: %w", err)
	}
	return items, nil
}

func (r *referenceRepo) ListByParent(ctx context.Context, kind domain.ReferenceKind, parentCode string) ([]domain.ReferenceItem, error) {
	var items []domain.ReferenceItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT kind, code, name, parent_code, sort_order FROM reference_items
		 WHERE kind = $1 AND parent_code = $2 ORDER BY sort_order, name`, kind, parentCode)
	if err != nil {
		return nil, fmt.Errorf("referenceRepo.ListByParent: %w", err)
	}
	return items, nil
}

func (r *referenceRepo) Upsert(ctx context.Context, items []domain.ReferenceItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("referenceRepo.Upsert begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO reference_items (kind, code, name, parent_code, sort_order)
		 VALUES (:kind, :code, :name, :parent_code, :sort_order)
		 ON CONFLICT (kind, code) DO UPDATE
		 SET name = EXCLUDED.name, parent_code = EXCLUDED.parent_code, sort_order = EXCLUDED.sort_order`,
		items)
	if err != nil {
		return fmt.Errorf("referenceRepo.Upsert: %w", err)
	}
	return tx.Commit()
}
