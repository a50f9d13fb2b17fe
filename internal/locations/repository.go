package locations

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for location reference data.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListProvinces returns all provinces ordered by name.
func (r *Repository) ListProvinces(ctx context.Context) ([]Province, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM provinces ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var provinces []Province
	for rows.Next() {
		var p Province
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		provinces = append(provinces, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return provinces, nil
}

// ListCities returns the cities of one province ordered by name.
func (r *Repository) ListCities(ctx context.Context, provinceID string) ([]City, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, province_id, name FROM cities WHERE province_id = $1 ORDER BY name`, provinceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cities []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.ProvinceID, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cities, nil
}
