package repository

import (
	"context"
	"errors"
	"time"

	"campus-ops/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Resource is a bookable room or space. ForeignID is the reservation
// system's numeric room id, used as the authoritative join key when a
// foreign record carries one.
type Resource struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Abbreviation *string   `json:"abbreviation,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ForeignID    *int32    `json:"foreign_id,omitempty"`
	Capacity     *int32    `json:"capacity,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResourceAlias maps a known free-text synonym to a resource
type ResourceAlias struct {
	ID         uuid.UUID `json:"id"`
	Alias      string    `json:"alias"`
	ResourceID int32     `json:"resource_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateResourceRequest holds parameters for creating a resource
type CreateResourceRequest struct {
	Name         string
	Abbreviation *string
	Description  *string
	ForeignID    *int32
	Capacity     *int32
}

// ResourceRepository handles resource and alias persistence
type ResourceRepository struct {
	db db.DBTX
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(dbtx db.DBTX) *ResourceRepository {
	return &ResourceRepository{db: dbtx}
}

const resourceColumns = `id, name, abbreviation, description, foreign_id, capacity, active, created_at, updated_at`

func scanResource(row pgx.Row) (*Resource, error) {
	var (
		res                       Resource
		abbreviation, description pgtype.Text
		foreignID, capacity       pgtype.Int4
		createdAt, updatedAt      pgtype.Timestamptz
	)

	err := row.Scan(&res.ID, &res.Name, &abbreviation, &description, &foreignID,
		&capacity, &res.Active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	res.Abbreviation = ptrFromText(abbreviation)
	res.Description = ptrFromText(description)
	res.ForeignID = ptrFromInt4(foreignID)
	res.Capacity = ptrFromInt4(capacity)
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// Create inserts a new resource
func (r *ResourceRepository) Create(ctx context.Context, req CreateResourceRequest) (*Resource, error) {
	query := `
		INSERT INTO resources (name, abbreviation, description, foreign_id, capacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + resourceColumns

	row := r.db.QueryRow(ctx, query,
		req.Name, textFromPtr(req.Abbreviation), textFromPtr(req.Description),
		int4FromPtr(req.ForeignID), int4FromPtr(req.Capacity),
	)
	return scanResource(row)
}

// GetByID retrieves a resource by id
func (r *ResourceRepository) GetByID(ctx context.Context, id int32) (*Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`

	res, err := scanResource(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListActive retrieves all active resources
func (r *ResourceRepository) ListActive(ctx context.Context) ([]Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE active = TRUE ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}
	return resources, rows.Err()
}

// ListAliases retrieves all resource aliases
func (r *ResourceRepository) ListAliases(ctx context.Context) ([]ResourceAlias, error) {
	query := `SELECT id, alias, resource_id, created_at FROM resource_aliases ORDER BY alias`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aliases []ResourceAlias
	for rows.Next() {
		var (
			a         ResourceAlias
			id        pgtype.UUID
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &a.Alias, &a.ResourceID, &createdAt); err != nil {
			return nil, err
		}
		a.ID = pgToUUID(id)
		a.CreatedAt = createdAt.Time
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

// CreateAlias inserts a new alias. Duplicate alias text maps to db.ErrConflict.
func (r *ResourceRepository) CreateAlias(ctx context.Context, alias string, resourceID int32) (*ResourceAlias, error) {
	query := `
		INSERT INTO resource_aliases (id, alias, resource_id)
		VALUES ($1, $2, $3)
		RETURNING id, alias, resource_id, created_at`

	var (
		a         ResourceAlias
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, uuidToPg(uuid.New()), alias, resourceID).
		Scan(&id, &a.Alias, &a.ResourceID, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, db.ErrConflict
		}
		return nil, err
	}
	a.ID = pgToUUID(id)
	a.CreatedAt = createdAt.Time
	return &a, nil
}

// DeleteAlias removes an alias
func (r *ResourceRepository) DeleteAlias(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resource_aliases WHERE id = $1`, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
