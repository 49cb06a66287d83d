package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-admin/internal/models"
)

const classColumns = `id, section_id, day, start, "end", code, title, units, room, instructor, created_at, updated_at`

// patchableClassColumns maps patch fields to quoted column names.
var patchableClassColumns = map[string]string{
	"title":      "title",
	"code":       "code",
	"section_id": "section_id",
	"day":        "day",
	"start":      "start",
	"end":        `"end"`,
	"units":      "units",
	"room":       "room",
	"instructor": "instructor",
}

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching filter criteria ordered by day, start and id.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	filter = filter.Normalize()

	base := "FROM classes WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SectionID != nil {
		conditions = append(conditions, fmt.Sprintf("section_id = $%d", len(args)+1))
		args = append(args, *filter.SectionID)
	}
	if filter.Day != nil {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, *filter.Day)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY day ASC, start ASC, id ASC LIMIT %d OFFSET %d", classColumns, base, filter.Limit, filter.Offset())
	classes := []models.Class{}
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// FindByID returns a class record by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	query := "SELECT " + classColumns + " FROM classes WHERE id = $1"
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a class and fills the server-assigned fields.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	query := `INSERT INTO classes (section_id, day, start, "end", code, title, units, room, instructor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING ` + classColumns
	if err := r.db.GetContext(ctx, class, query,
		class.SectionID, class.Day, class.Start, class.End, class.Code, class.Title, class.Units, class.Room, class.Instructor,
	); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update applies a partial update and returns the stored row. A missing id
// yields sql.ErrNoRows.
func (r *ClassRepository) Update(ctx context.Context, id int64, changes []models.Change) (*models.Class, error) {
	if len(changes) == 0 {
		return r.FindByID(ctx, id)
	}

	sets := make([]string, 0, len(changes)+1)
	args := make([]interface{}, 0, len(changes)+1)
	for _, ch := range changes {
		column, ok := patchableClassColumns[ch.Column]
		if !ok {
			return nil, fmt.Errorf("update class: unknown column %q", ch.Column)
		}
		args = append(args, ch.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE classes SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, args...); err != nil {
		return nil, err
	}
	return &class, nil
}

// Delete removes a class. A missing id yields sql.ErrNoRows.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "classes", id)
}
