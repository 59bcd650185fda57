package propertyrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
)

type Repo interface {
	Exists(ctx context.Context, tenantID, propertyID int64) (bool, error)
	GetRoom(ctx context.Context, tenantID, propertyID, roomID int64) (*model.Room, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db} }

func (r *repo) Exists(ctx context.Context, tenantID, propertyID int64) (bool, error) {
	const q = `
		SELECT 1
		FROM properties
		WHERE tenant_id = $1 AND id = $2 AND is_active`
	var one int
	err := r.db.QueryRow(ctx, q, tenantID, propertyID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repo) GetRoom(ctx context.Context, tenantID, propertyID, roomID int64) (*model.Room, error) {
	const q = `
		SELECT id, tenant_id, property_id, name, room_type,
		       max_adults, max_occupancy, total_units, amenities, is_active
		FROM rooms
		WHERE tenant_id = $1 AND property_id = $2 AND id = $3 AND is_active`
	var rm model.Room
	err := r.db.QueryRow(ctx, q, tenantID, propertyID, roomID).Scan(
		&rm.ID, &rm.TenantID, &rm.PropertyID, &rm.Name, &rm.RoomType,
		&rm.MaxAdults, &rm.MaxOccupancy, &rm.TotalUnits, &rm.Amenities, &rm.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}
