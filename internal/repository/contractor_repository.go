package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/estimate-service/internal/domain"
)

// ContractorStats is a contractor row with aggregate counts for the admin
// listing.
type ContractorStats struct {
	Contractor    domain.Contractor
	CustomerCount int
	ProjectCount  int
}

// ContractorRepository defines persistence access for contractor accounts.
type ContractorRepository interface {
	Create(ctx context.Context, contractor *domain.Contractor) error
	Update(ctx context.Context, contractor *domain.Contractor) error
	GetByID(ctx context.Context, id string) (*domain.Contractor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Contractor, error)
	ListWithStats(ctx context.Context, limit, offset int) ([]ContractorStats, error)
}

type contractorRepository struct {
	pool *pgxpool.Pool
}

// NewContractorRepository returns a Postgres-backed implementation.
func NewContractorRepository(pool *pgxpool.Pool) ContractorRepository {
	return &contractorRepository{pool: pool}
}

func (r *contractorRepository) Create(ctx context.Context, contractor *domain.Contractor) error {
	const query = `
        INSERT INTO contractors (company_name, contact_name, email, password_hash, phone, status, is_admin)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		contractor.CompanyName,
		contractor.ContactName,
		contractor.Email,
		contractor.PasswordHash,
		contractor.Phone,
		contractor.Status,
		contractor.IsAdmin,
	).Scan(&contractor.ID, &contractor.CreatedAt, &contractor.UpdatedAt)
}

func (r *contractorRepository) Update(ctx context.Context, contractor *domain.Contractor) error {
	const query = `
        UPDATE contractors SET company_name=$1, contact_name=$2, email=$3, password_hash=$4,
            phone=$5, status=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		contractor.CompanyName,
		contractor.ContactName,
		contractor.Email,
		contractor.PasswordHash,
		contractor.Phone,
		contractor.Status,
		contractor.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contractorRepository) GetByID(ctx context.Context, id string) (*domain.Contractor, error) {
	const query = `
        SELECT id, company_name, contact_name, email, password_hash, phone, status, is_admin, created_at, updated_at
        FROM contractors WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *contractorRepository) GetByEmail(ctx context.Context, email string) (*domain.Contractor, error) {
	const query = `
        SELECT id, company_name, contact_name, email, password_hash, phone, status, is_admin, created_at, updated_at
        FROM contractors WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *contractorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Contractor, error) {
	var contractor domain.Contractor
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&contractor.ID,
		&contractor.CompanyName,
		&contractor.ContactName,
		&contractor.Email,
		&contractor.PasswordHash,
		&contractor.Phone,
		&contractor.Status,
		&contractor.IsAdmin,
		&contractor.CreatedAt,
		&contractor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (r *contractorRepository) ListWithStats(ctx context.Context, limit, offset int) ([]ContractorStats, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const query = `
        SELECT c.id, c.company_name, c.contact_name, c.email, c.password_hash, c.phone, c.status, c.is_admin,
               c.created_at, c.updated_at,
               (SELECT COUNT(*) FROM customers cu WHERE cu.contractor_id = c.id),
               (SELECT COUNT(*) FROM projects p WHERE p.contractor_id = c.id)
        FROM contractors c
        ORDER BY c.created_at DESC
        LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContractorStats
	for rows.Next() {
		var s ContractorStats
		if err := rows.Scan(
			&s.Contractor.ID,
			&s.Contractor.CompanyName,
			&s.Contractor.ContactName,
			&s.Contractor.Email,
			&s.Contractor.PasswordHash,
			&s.Contractor.Phone,
			&s.Contractor.Status,
			&s.Contractor.IsAdmin,
			&s.Contractor.CreatedAt,
			&s.Contractor.UpdatedAt,
			&s.CustomerCount,
			&s.ProjectCount,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
