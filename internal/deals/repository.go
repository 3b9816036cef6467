package deals

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundbridge-kh/fundbridge/internal/platform/db"
	"github.com/fundbridge-kh/fundbridge/internal/shared"
)

// Repository defines persistence operations for deals.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Deal, int, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Deal, int, error)
	Get(ctx context.Context, id string) (*Deal, error)
	OwnerID(ctx context.Context, id string) (string, error)
	Create(ctx context.Context, deal Deal) error
	UpdateStatus(ctx context.Context, id, status string) error
	Update(ctx context.Context, deal Deal) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const dealColumns = `id, reference, sme_id, title, sector, funding_required, equity_percentage,
	contact_email, contact_phone, status, created_at, updated_at`

// List returns a page of deals ordered newest first plus the total count.
func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]Deal, int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+dealColumns+` FROM deals ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("deals: list: %w", err)
	}
	list, err := scanDeals(rows)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM deals`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("deals: count: %w", err)
	}
	return list, total, nil
}

// ListByOwner returns a page of one SME's deals plus their total count.
func (r *PGRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Deal, int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE sme_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("deals: list by owner: %w", err)
	}
	list, err := scanDeals(rows)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM deals WHERE sme_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("deals: count by owner: %w", err)
	}
	return list, total, nil
}

// Get fetches a deal by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Deal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)
	deal, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("deals: get: %w", err)
	}
	return deal, nil
}

// OwnerID resolves only the owning SME's user ID, for authorization checks.
func (r *PGRepository) OwnerID(ctx context.Context, id string) (string, error) {
	var ownerID string
	err := r.pool.QueryRow(ctx, `SELECT sme_id FROM deals WHERE id = $1`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", fmt.Errorf("deals: owner: %w", err)
	}
	return ownerID, nil
}

// Create inserts a new deal.
func (r *PGRepository) Create(ctx context.Context, deal Deal) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO deals (id, reference, sme_id, title, sector, funding_required,
				equity_percentage, contact_email, contact_phone, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			deal.ID, deal.Reference, deal.SmeID, deal.Title, deal.Sector, deal.FundingRequired,
			deal.EquityPercentage, deal.ContactEmail, deal.ContactPhone, deal.Status,
			deal.CreatedAt, deal.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return shared.ErrDuplicate
			}
			return fmt.Errorf("deals: create: %w", err)
		}
		return nil
	})
}

// UpdateStatus transitions a deal's status.
func (r *PGRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE deals SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("deals: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Update rewrites the mutable fields of a deal.
func (r *PGRepository) Update(ctx context.Context, deal Deal) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE deals SET title = $2, sector = $3, funding_required = $4, equity_percentage = $5,
			contact_email = $6, contact_phone = $7, updated_at = NOW()
		 WHERE id = $1`,
		deal.ID, deal.Title, deal.Sector, deal.FundingRequired, deal.EquityPercentage,
		deal.ContactEmail, deal.ContactPhone)
	if err != nil {
		return fmt.Errorf("deals: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanDeals(rows pgx.Rows) ([]Deal, error) {
	defer rows.Close()
	var list []Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("deals: scan: %w", err)
		}
		list = append(list, *deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("deals: rows: %w", err)
	}
	return list, nil
}

func scanDeal(row pgx.Row) (*Deal, error) {
	var d Deal
	err := row.Scan(&d.ID, &d.Reference, &d.SmeID, &d.Title, &d.Sector, &d.FundingRequired,
		&d.EquityPercentage, &d.ContactEmail, &d.ContactPhone, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
