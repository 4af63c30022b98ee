package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RegionRepo struct {
	pool *pgxpool.Pool
}

type RegionPoint struct {
	RegionID int64
	Lat      float64
	Lon      float64
}

func NewRegionRepo(pool *pgxpool.Pool) *RegionRepo {
	return &RegionRepo{pool: pool}
}

// ListPoints returns coordinates for the requested regions. Regions without
// stored coordinates are simply absent from the result.
func (r *RegionRepo) ListPoints(ctx context.Context, regionIDs []int64) (map[int64]RegionPoint, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if len(regionIDs) == 0 {
		return map[int64]RegionPoint{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, lat, lon
FROM regions
WHERE id = ANY($1::bigint[])
  AND lat IS NOT NULL
  AND lon IS NOT NULL
`, regionIDs)
	if err != nil {
		return nil, fmt.Errorf("list region points: %w", err)
	}
	defer rows.Close()

	points := make(map[int64]RegionPoint, len(regionIDs))
	for rows.Next() {
		var point RegionPoint
		if err := rows.Scan(&point.RegionID, &point.Lat, &point.Lon); err != nil {
			return nil, fmt.Errorf("scan region point: %w", err)
		}
		points[point.RegionID] = point
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate region points: %w", err)
	}

	return points, nil
}
