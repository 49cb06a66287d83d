package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-admin/internal/models"
)

const sectionColumns = "id, code, created_at, updated_at"

// SectionRepository manages persistence for sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns every section ordered by id.
func (r *SectionRepository) List(ctx context.Context) ([]models.Section, error) {
	sections := []models.Section{}
	if err := r.db.SelectContext(ctx, &sections, "SELECT "+sectionColumns+" FROM sections ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// Create inserts a section.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	if err := r.db.GetContext(ctx, section, "INSERT INTO sections (code) VALUES ($1) RETURNING "+sectionColumns, section.Code); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// UpdateCode renames a section. A missing id yields sql.ErrNoRows.
func (r *SectionRepository) UpdateCode(ctx context.Context, id int64, code string) (*models.Section, error) {
	var section models.Section
	query := "UPDATE sections SET code = $1, updated_at = NOW() WHERE id = $2 RETURNING " + sectionColumns
	if err := r.db.GetContext(ctx, &section, query, code, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// Delete removes a section. A missing id yields sql.ErrNoRows.
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "sections", id)
}

func deleteByID(ctx context.Context, db *sqlx.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
