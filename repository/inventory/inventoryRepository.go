package inventoryrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
)

var (
	ErrNotFound   = errors.New("inventory record not found")
	ErrOutOfRange = errors.New("available_rooms outside [0, total_rooms]")
)

// UpdateFields is a partial update; nil fields are left untouched.
type UpdateFields struct {
	AvailableRooms    *int
	Price             *float64
	MinStay           *int
	ClosedToArrival   *bool
	ClosedToDeparture *bool
	StopSell          *bool
}

type Repo interface {
	ListByDate(ctx context.Context, tenantID, propertyID int64, date time.Time, roomID, ratePlanID *int64) ([]model.InventoryRecord, error)

	// GetForUpdate locks the row for the duration of tx.
	GetForUpdate(ctx context.Context, tx pgx.Tx, tenantID, recordID int64) (*model.InventoryRecord, error)
	UpdateRecord(ctx context.Context, tx pgx.Tx, recordID int64, f UpdateFields) error
	Begin(ctx context.Context) (pgx.Tx, error)

	// UpdateByKey is the guarded single-statement update used by bulk items.
	UpdateByKey(ctx context.Context, tenantID, propertyID, roomID, ratePlanID int64, date time.Time, availableRooms *int, price *float64) error

	// ListForStay returns the records for [from, to) ordered by date. Missing
	// nights simply yield fewer rows; callers judge completeness.
	ListForStay(ctx context.Context, tenantID, roomID, ratePlanID int64, from, to time.Time) ([]model.InventoryRecord, error)

	// InsertMany inserts records in one transaction, skipping rows whose
	// composite key already exists. Returns the number actually inserted.
	InsertMany(ctx context.Context, recs []model.InventoryRecord) (int64, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db} }

func (r *repo) Begin(ctx context.Context) (pgx.Tx, error) { return r.db.Begin(ctx) }

const selectCols = `
	id, tenant_id, property_id, room_id, rate_plan_id, date,
	available_rooms, total_rooms, price, currency, min_stay,
	closed_to_arrival, closed_to_departure, stop_sell, restrictions, updated_at`

func scanRecord(row pgx.Row) (*model.InventoryRecord, error) {
	var (
		rec    model.InventoryRecord
		resRaw []byte
	)
	err := row.Scan(
		&rec.ID, &rec.TenantID, &rec.PropertyID, &rec.RoomID, &rec.RatePlanID, &rec.Date,
		&rec.AvailableRooms, &rec.TotalRooms, &rec.Price, &rec.Currency, &rec.MinStay,
		&rec.ClosedToArrival, &rec.ClosedToDeparture, &rec.StopSell, &resRaw, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(resRaw) > 0 {
		if err := json.Unmarshal(resRaw, &rec.Restrictions); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

func (r *repo) ListByDate(ctx context.Context, tenantID, propertyID int64, date time.Time, roomID, ratePlanID *int64) ([]model.InventoryRecord, error) {
	const q = `
		SELECT ` + selectCols + `
		FROM inventory_records
		WHERE tenant_id = $1 AND property_id = $2 AND date = $3
		  AND ($4::bigint IS NULL OR room_id = $4)
		  AND ($5::bigint IS NULL OR rate_plan_id = $5)
		ORDER BY room_id, rate_plan_id`
	rows, err := r.db.Query(ctx, q, tenantID, propertyID, date, roomID, ratePlanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *repo) GetForUpdate(ctx context.Context, tx pgx.Tx, tenantID, recordID int64) (*model.InventoryRecord, error) {
	const q = `
		SELECT ` + selectCols + `
		FROM inventory_records
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE`
	rec, err := scanRecord(tx.QueryRow(ctx, q, tenantID, recordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repo) UpdateRecord(ctx context.Context, tx pgx.Tx, recordID int64, f UpdateFields) error {
	const q = `
		UPDATE inventory_records
		SET available_rooms     = COALESCE($2, available_rooms),
		    price               = COALESCE($3, price),
		    min_stay            = COALESCE($4, min_stay),
		    closed_to_arrival   = COALESCE($5, closed_to_arrival),
		    closed_to_departure = COALESCE($6, closed_to_departure),
		    stop_sell           = COALESCE($7, stop_sell),
		    updated_at          = now()
		WHERE id = $1`
	tag, err := tx.Exec(ctx, q, recordID,
		f.AvailableRooms, f.Price, f.MinStay,
		f.ClosedToArrival, f.ClosedToDeparture, f.StopSell)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) UpdateByKey(ctx context.Context, tenantID, propertyID, roomID, ratePlanID int64, date time.Time, availableRooms *int, price *float64) error {
	// Guards keep the invariant in the statement itself: an out-of-range
	// count or negative price updates zero rows.
	const q = `
		UPDATE inventory_records
		SET available_rooms = COALESCE($6, available_rooms),
		    price           = COALESCE($7, price),
		    updated_at      = now()
		WHERE tenant_id = $1 AND property_id = $2 AND room_id = $3
		  AND rate_plan_id = $4 AND date = $5
		  AND ($6::int IS NULL OR ($6 >= 0 AND $6 <= total_rooms))
		  AND ($7::numeric IS NULL OR $7 >= 0)`
	tag, err := r.db.Exec(ctx, q, tenantID, propertyID, roomID, ratePlanID, date, availableRooms, price)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: tell a missing record apart from a rejected value.
	const exists = `
		SELECT 1
		FROM inventory_records
		WHERE tenant_id = $1 AND property_id = $2 AND room_id = $3
		  AND rate_plan_id = $4 AND date = $5`
	var one int
	err = r.db.QueryRow(ctx, exists, tenantID, propertyID, roomID, ratePlanID, date).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrOutOfRange
}

func (r *repo) ListForStay(ctx context.Context, tenantID, roomID, ratePlanID int64, from, to time.Time) ([]model.InventoryRecord, error) {
	const q = `
		SELECT ` + selectCols + `
		FROM inventory_records
		WHERE tenant_id = $1 AND room_id = $2 AND rate_plan_id = $3
		  AND date >= $4 AND date < $5
		ORDER BY date`
	rows, err := r.db.Query(ctx, q, tenantID, roomID, ratePlanID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *repo) InsertMany(ctx context.Context, recs []model.InventoryRecord) (count int64, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const ins = `
		INSERT INTO inventory_records
			(tenant_id, property_id, room_id, rate_plan_id, date,
			 available_rooms, total_rooms, price, currency)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (tenant_id, property_id, room_id, rate_plan_id, date) DO NOTHING`
	for i := range recs {
		rec := &recs[i]
		tag, execErr := tx.Exec(ctx, ins,
			rec.TenantID, rec.PropertyID, rec.RoomID, rec.RatePlanID, rec.Date,
			rec.AvailableRooms, rec.TotalRooms, rec.Price, rec.Currency)
		if execErr != nil {
			err = execErr
			return 0, err
		}
		count += tag.RowsAffected()
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}
