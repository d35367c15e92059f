package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/pkg/strcase"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS shipments (
	id                 CHAR(24) PRIMARY KEY,
	origin             TEXT NOT NULL,
	destination        TEXT NOT NULL,
	status             TEXT NOT NULL,
	estimated_delivery TIMESTAMPTZ NULL,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS shipments_status_idx ON shipments (status);
CREATE INDEX IF NOT EXISTS shipments_created_at_idx ON shipments (created_at DESC);
CREATE INDEX IF NOT EXISTS shipments_estimated_delivery_idx ON shipments (estimated_delivery);
`

const shipmentColumns = "id, origin, destination, status, estimated_delivery, created_at, updated_at"

// only these sort keys reach SQL text, as snake_case column names.
var postgresSortable = map[string]struct{}{
	entity.SortCreatedAt:         {},
	entity.SortEstimatedDelivery: {},
}

// Postgres stores shipments in the "shipments" table.
type Postgres struct {
	tracer
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool, ins instrument.Instrumentation) *Postgres {
	return &Postgres{
		tracer: tracer{ins: ins, system: "postgresql"},
		pool:   pool,
	}
}

// EnsureSchema creates the shipments table and its indexes.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresSchema)
	return err
}

// - 23505 unique violation → goerror.ErrConflict
func (p *Postgres) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var (
		s      entity.Shipment
		status string
	)
	if err := row.Scan(&s.ID, &s.Origin, &s.Destination, &status, &s.EstimatedDelivery, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Status = entity.Status(status)
	s.EstimatedDelivery = utcPtr(s.EstimatedDelivery)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

func postgresWhere(filter map[string]string, args []any) (string, []any) {
	if status, ok := filter[entity.FilterStatus]; ok {
		args = append(args, status)
		return fmt.Sprintf(" WHERE status = $%d", len(args)), args
	}
	return "", args
}

func (p *Postgres) Find(ctx context.Context, q paginate.Query) (items []entity.Shipment, err error) {
	ctx, span := p.startSpan(ctx, "Find")
	defer func() { p.endSpan(span, err) }()

	sortBy := q.SortBy
	if _, ok := postgresSortable[sortBy]; !ok {
		sortBy = entity.SortCreatedAt
	}
	column := strcase.ToLowerSnake(sortBy)
	dir, nulls := "ASC", "NULLS FIRST"
	if q.Descending() {
		dir, nulls = "DESC", "NULLS LAST"
	}

	where, args := postgresWhere(q.Filter, nil)
	args = append(args, q.Limit, q.Skip())

	var sb strings.Builder
	sb.WriteString("SELECT " + shipmentColumns + " FROM shipments")
	sb.WriteString(where)
	fmt.Fprintf(&sb, " ORDER BY %s %s %s, id %s LIMIT $%d OFFSET $%d", column, dir, nulls, dir, len(args)-1, len(args))

	rows, err := p.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, p.mapError(err)
	}
	defer rows.Close()

	items = []entity.Shipment{}
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, p.mapError(err)
		}
		items = append(items, *s)
	}
	return items, p.mapError(rows.Err())
}

func (p *Postgres) Count(ctx context.Context, filter map[string]string) (n int64, err error) {
	ctx, span := p.startSpan(ctx, "Count")
	defer func() { p.endSpan(span, err) }()

	where, args := postgresWhere(filter, nil)
	err = p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM shipments"+where, args...).Scan(&n)
	return n, p.mapError(err)
}

func (p *Postgres) Create(ctx context.Context, s entity.Shipment) (err error) {
	ctx, span := p.startSpan(ctx, "Create")
	defer func() { p.endSpan(span, err) }()

	_, err = p.pool.Exec(ctx,
		"INSERT INTO shipments ("+shipmentColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		s.ID, s.Origin, s.Destination, s.Status.String(), s.EstimatedDelivery, s.CreatedAt, s.UpdatedAt,
	)
	return p.mapError(err)
}

func (p *Postgres) Get(ctx context.Context, id string) (_ *entity.Shipment, err error) {
	ctx, span := p.startSpan(ctx, "Get")
	defer func() { p.endSpan(span, err) }()

	s, err := scanShipment(p.pool.QueryRow(ctx, "SELECT "+shipmentColumns+" FROM shipments WHERE id = $1", id))
	return s, p.mapError(err)
}

func (p *Postgres) Update(ctx context.Context, id string, patch entity.ShipmentPatch, updatedAt time.Time) (_ *entity.Shipment, err error) {
	ctx, span := p.startSpan(ctx, "Update")
	defer func() { p.endSpan(span, err) }()

	var status *string
	if patch.Status != nil {
		v := patch.Status.String()
		status = &v
	}

	s, err := scanShipment(p.pool.QueryRow(ctx, `
		UPDATE shipments SET
			origin             = COALESCE($2, origin),
			destination        = COALESCE($3, destination),
			status             = COALESCE($4, status),
			estimated_delivery = COALESCE($5, estimated_delivery),
			updated_at         = $6
		WHERE id = $1
		RETURNING `+shipmentColumns,
		id, patch.Origin, patch.Destination, status, patch.EstimatedDelivery, updatedAt,
	))
	return s, p.mapError(err)
}

func (p *Postgres) Delete(ctx context.Context, id string) (err error) {
	ctx, span := p.startSpan(ctx, "Delete")
	defer func() { p.endSpan(span, err) }()

	tag, err := p.pool.Exec(ctx, "DELETE FROM shipments WHERE id = $1", id)
	if err != nil {
		return p.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) (err error) {
	ctx, span := p.startSpan(ctx, "Ping")
	defer func() { p.endSpan(span, err) }()

	return p.pool.Ping(ctx)
}
