package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/estimate-service/internal/domain"
)

// ProjectRepository encapsulates project estimate persistence. Owner-scoped
// operations always filter by contractor id; token lookups never do.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, contractorID string, project *domain.Project) error
	GetByID(ctx context.Context, contractorID, id string) (*domain.Project, error)
	ListByContractor(ctx context.Context, contractorID string, limit, offset int) ([]domain.Project, error)
	Delete(ctx context.Context, contractorID, id string) error
	SetShareToken(ctx context.Context, contractorID, id, token string) error
	GetByShareToken(ctx context.Context, token string) (*domain.Project, error)
	MarkViewed(ctx context.Context, id string) error
	MarkSigned(ctx context.Context, id, signatureName string) error
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository instantiates repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, contractor_id, customer_id, title, flooring_type, area_sqft, material_cost,
        labor_cost, total_amount, notes, status, share_token, viewed_at, signed_at, signature_name,
        created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (contractor_id, customer_id, title, flooring_type, area_sqft,
            material_cost, labor_cost, total_amount, notes, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		project.ContractorID,
		project.CustomerID,
		project.Title,
		project.FlooringType,
		project.AreaSqFt,
		project.MaterialCost,
		project.LaborCost,
		project.TotalAmount,
		project.Notes,
		project.Status,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) Update(ctx context.Context, contractorID string, project *domain.Project) error {
	const query = `
        UPDATE projects SET customer_id=$1, title=$2, flooring_type=$3, area_sqft=$4, material_cost=$5,
            labor_cost=$6, total_amount=$7, notes=$8, status=$9, updated_at=NOW()
        WHERE id=$10 AND contractor_id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		project.CustomerID,
		project.Title,
		project.FlooringType,
		project.AreaSqFt,
		project.MaterialCost,
		project.LaborCost,
		project.TotalAmount,
		project.Notes,
		project.Status,
		project.ID,
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

func (r *projectRepository) GetByID(ctx context.Context, contractorID, id string) (*domain.Project, error) {
	const query = `
        SELECT ` + projectColumns + `
        FROM projects WHERE id=$1 AND contractor_id=$2`
	return r.fetchSingle(ctx, query, id, contractorID)
}

func (r *projectRepository) ListByContractor(ctx context.Context, contractorID string, limit, offset int) ([]domain.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const query = `
        SELECT ` + projectColumns + `
        FROM projects WHERE contractor_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, contractorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *project)
	}
	return out, rows.Err()
}

func (r *projectRepository) Delete(ctx context.Context, contractorID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id=$1 AND contractor_id=$2`, id, contractorID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetShareToken writes the token unconditionally; concurrent first
// issuance resolves as last write wins.
func (r *projectRepository) SetShareToken(ctx context.Context, contractorID, id, token string) error {
	const query = `
        UPDATE projects SET share_token=$1, status=CASE WHEN status='DRAFT' THEN 'SENT' ELSE status END,
            updated_at=NOW()
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

// GetByShareToken looks up by token value only, never by owner.
func (r *projectRepository) GetByShareToken(ctx context.Context, token string) (*domain.Project, error) {
	const query = `
        SELECT ` + projectColumns + `
        FROM projects WHERE share_token=$1`
	return r.fetchSingle(ctx, query, token)
}

// MarkViewed stamps the first successful public view. A no-op once viewed
// or signed.
func (r *projectRepository) MarkViewed(ctx context.Context, id string) error {
	const query = `
        UPDATE projects SET viewed_at=NOW(), status='VIEWED', updated_at=NOW()
        WHERE id=$1 AND viewed_at IS NULL AND signed_at IS NULL`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// MarkSigned records the signature. Returns pgx.ErrNoRows when the project
// was already signed, so callers can reject repeats.
func (r *projectRepository) MarkSigned(ctx context.Context, id, signatureName string) error {
	const query = `
        UPDATE projects SET signed_at=NOW(), signature_name=$2, status='SIGNED', updated_at=NOW()
        WHERE id=$1 AND signed_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id, signatureName)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, query, args...))
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.ContractorID,
		&project.CustomerID,
		&project.Title,
		&project.FlooringType,
		&project.AreaSqFt,
		&project.MaterialCost,
		&project.LaborCost,
		&project.TotalAmount,
		&project.Notes,
		&project.Status,
		&project.ShareToken,
		&project.ViewedAt,
		&project.SignedAt,
		&project.SignatureName,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &project, nil
}
