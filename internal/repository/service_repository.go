package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shop-at/authentication-service/internal/domain"
)

// ServiceRepository reads registered internal services.
type ServiceRepository interface {
	GetByName(ctx context.Context, name string) (*domain.ServiceRegistry, error)
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository returns a Postgres-backed implementation.
func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

func (r *serviceRepository) GetByName(ctx context.Context, name string) (*domain.ServiceRegistry, error) {
	const query = `
        SELECT id, service_name, secret_hash, active, created_at, updated_at
        FROM service_registry WHERE service_name=$1`

	var svc domain.ServiceRegistry
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&svc.ID,
		&svc.ServiceName,
		&svc.SecretHash,
		&svc.Active,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &svc, nil
}
