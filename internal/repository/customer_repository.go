package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/estimate-service/internal/domain"
)

// CustomerRepository encapsulates customer persistence. Every operation
// except the token lookup is scoped by contractor id; dropping that filter
// is a security defect, not a style choice.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, contractorID string, customer *domain.Customer) error
	GetByID(ctx context.Context, contractorID, id string) (*domain.Customer, error)
	ListByContractor(ctx context.Context, contractorID string, limit, offset int) ([]domain.Customer, error)
	Delete(ctx context.Context, contractorID, id string) error
	SetIntakeToken(ctx context.Context, contractorID, id, token string) error
	GetByIntakeToken(ctx context.Context, token string) (*domain.Customer, error)
	CompleteIntake(ctx context.Context, id string, profile domain.Customer) error
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, contractor_id, name, email, phone, address_line, city, state, zip, notes,
        intake_token, intake_completed_at, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (contractor_id, name, email, phone, address_line, city, state, zip, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		customer.ContractorID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.AddressLine,
		customer.City,
		customer.State,
		customer.Zip,
		customer.Notes,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) Update(ctx context.Context, contractorID string, customer *domain.Customer) error {
	const query = `
        UPDATE customers SET name=$1, email=$2, phone=$3, address_line=$4, city=$5, state=$6, zip=$7,
            notes=$8, updated_at=NOW()
        WHERE id=$9 AND contractor_id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.AddressLine,
		customer.City,
		customer.State,
		customer.Zip,
		customer.Notes,
		customer.ID,
		contractorID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, contractorID, id string) (*domain.Customer, error) {
	const query = `
        SELECT ` + customerColumns + `
        FROM customers WHERE id=$1 AND contractor_id=$2`
	return r.fetchSingle(ctx, query, id, contractorID)
}

func (r *customerRepository) ListByContractor(ctx context.Context, contractorID string, limit, offset int) ([]domain.Customer, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const query = `
        SELECT ` + customerColumns + `
        FROM customers WHERE contractor_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, contractorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *customer)
	}
	return out, rows.Err()
}

func (r *customerRepository) Delete(ctx context.Context, contractorID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id=$1 AND contractor_id=$2`, id, contractorID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetIntakeToken writes the token unconditionally; concurrent first
// issuance resolves as last write wins.
func (r *customerRepository) SetIntakeToken(ctx context.Context, contractorID, id, token string) error {
	const query = `
        UPDATE customers SET intake_token=$1, updated_at=NOW()
        WHERE id=$2 AND contractor_id=$3`
	cmd, err := r.pool.Exec(ctx, query, token, id, contractorID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetByIntakeToken looks up by token value only; public-token routes never
// filter by owner.
func (r *customerRepository) GetByIntakeToken(ctx context.Context, token string) (*domain.Customer, error) {
	const query = `
        SELECT ` + customerColumns + `
        FROM customers WHERE intake_token=$1`
	return r.fetchSingle(ctx, query, token)
}

func (r *customerRepository) CompleteIntake(ctx context.Context, id string, profile domain.Customer) error {
	const query = `
        UPDATE customers SET phone=$1, address_line=$2, city=$3, state=$4, zip=$5, notes=$6,
            intake_completed_at=NOW(), updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		profile.Phone,
		profile.AddressLine,
		profile.City,
		profile.State,
		profile.Zip,
		profile.Notes,
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Customer, error) {
	return scanCustomer(r.pool.QueryRow(ctx, query, args...))
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var customer domain.Customer
	if err := row.Scan(
		&customer.ID,
		&customer.ContractorID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.AddressLine,
		&customer.City,
		&customer.State,
		&customer.Zip,
		&customer.Notes,
		&customer.IntakeToken,
		&customer.IntakeCompletedAt,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}
