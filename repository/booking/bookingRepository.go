package bookingrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
)

var (
	// ErrNoAvailability: a night's conditional decrement updated zero rows —
	// the record is missing, stop-sold, or short on rooms. The whole
	// transaction is rolled back.
	ErrNoAvailability = errors.New("insufficient availability")

	ErrDuplicateReference = errors.New("booking reference already exists")
	ErrNotFound           = errors.New("booking not found")
	ErrNotConfirmed       = errors.New("booking is not confirmed")
)

type Repo interface {
	// Create inserts the booking and decrements every night's availability
	// in one transaction. Either both happen or neither does.
	Create(ctx context.Context, b *model.Booking) error

	GetByID(ctx context.Context, tenantID, id int64) (*model.Booking, error)
	ListByProperty(ctx context.Context, tenantID, propertyID int64, limit, offset int) ([]model.Booking, error)

	// Cancel flips a confirmed booking to cancelled and restores the rooms
	// consumed on nights in [restockFrom, check_out), in one transaction.
	Cancel(ctx context.Context, tenantID, id int64, restockFrom time.Time) error

	SetPaymentStatusByCardID(ctx context.Context, cardID string, st model.PaymentStatus) (int64, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, b *model.Booking) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const ins = `
		INSERT INTO bookings
			(tenant_id, property_id, room_id, rate_plan_id, booking_reference,
			 guest_name, guest_email, check_in_date, check_out_date,
			 rooms, adults, children, total_nights, base_price, total_amount,
			 currency, status, payment_status, payment_method, vcc_card_id,
			 special_requests)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		RETURNING id, created_at`
	err = tx.QueryRow(ctx, ins,
		b.TenantID, b.PropertyID, b.RoomID, b.RatePlanID, b.Reference,
		b.GuestName, b.GuestEmail, b.CheckInDate, b.CheckOutDate,
		b.Rooms, b.Adults, b.Children, b.TotalNights, b.BasePrice, b.TotalAmount,
		b.Currency, b.Status, b.PaymentStatus, b.PaymentMethod, b.VCCCardID,
		b.SpecialRequests,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateReference
		}
		return err
	}

	// Conditional decrement per night; 0 rows affected means the stay can no
	// longer be satisfied and everything above is rolled back.
	const dec = `
		UPDATE inventory_records
		SET available_rooms = available_rooms - $1,
		    updated_at      = now()
		WHERE tenant_id = $2 AND room_id = $3 AND rate_plan_id = $4 AND date = $5
		  AND stop_sell = FALSE
		  AND available_rooms >= $1`
	for night := b.CheckInDate; night.Before(b.CheckOutDate); night = night.AddDate(0, 0, 1) {
		tag, execErr := tx.Exec(ctx, dec, b.Rooms, b.TenantID, b.RoomID, b.RatePlanID, night)
		if execErr != nil {
			err = execErr
			return err
		}
		if tag.RowsAffected() == 0 {
			err = ErrNoAvailability
			return err
		}
	}

	return tx.Commit(ctx)
}

const bookingCols = `
	id, tenant_id, property_id, room_id, rate_plan_id, booking_reference,
	guest_name, guest_email, check_in_date, check_out_date,
	rooms, adults, children, total_nights, base_price, total_amount,
	currency, status, payment_status, payment_method, vcc_card_id,
	special_requests, created_at, cancelled_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.TenantID, &b.PropertyID, &b.RoomID, &b.RatePlanID, &b.Reference,
		&b.GuestName, &b.GuestEmail, &b.CheckInDate, &b.CheckOutDate,
		&b.Rooms, &b.Adults, &b.Children, &b.TotalNights, &b.BasePrice, &b.TotalAmount,
		&b.Currency, &b.Status, &b.PaymentStatus, &b.PaymentMethod, &b.VCCCardID,
		&b.SpecialRequests, &b.CreatedAt, &b.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) GetByID(ctx context.Context, tenantID, id int64) (*model.Booking, error) {
	const q = `
		SELECT ` + bookingCols + `
		FROM bookings
		WHERE tenant_id = $1 AND id = $2`
	b, err := scanBooking(r.db.QueryRow(ctx, q, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) ListByProperty(ctx context.Context, tenantID, propertyID int64, limit, offset int) ([]model.Booking, error) {
	const q = `
		SELECT ` + bookingCols + `
		FROM bookings
		WHERE tenant_id = $1 AND property_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, q, tenantID, propertyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *repo) Cancel(ctx context.Context, tenantID, id int64, restockFrom time.Time) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const lock = `
		SELECT status, room_id, rate_plan_id, rooms, check_in_date, check_out_date
		FROM bookings
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE`
	var (
		status         model.BookingStatus
		roomID, planID int64
		rooms          int
		checkIn        time.Time
		checkOut       time.Time
	)
	err = tx.QueryRow(ctx, lock, tenantID, id).Scan(&status, &roomID, &planID, &rooms, &checkIn, &checkOut)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != model.BookingConfirmed {
		return ErrNotConfirmed
	}

	const cancel = `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = now()
		WHERE tenant_id = $1 AND id = $2`
	if _, err = tx.Exec(ctx, cancel, tenantID, id); err != nil {
		return err
	}

	from := restockFrom
	if from.Before(checkIn) {
		from = checkIn
	}
	if from.Before(checkOut) {
		// LEAST keeps the restock from exceeding capacity when totals were
		// lowered after the booking was taken.
		const restock = `
			UPDATE inventory_records
			SET available_rooms = LEAST(total_rooms, available_rooms + $1),
			    updated_at      = now()
			WHERE tenant_id = $2 AND room_id = $3 AND rate_plan_id = $4
			  AND date >= $5 AND date < $6`
		if _, err = tx.Exec(ctx, restock, rooms, tenantID, roomID, planID, from, checkOut); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *repo) SetPaymentStatusByCardID(ctx context.Context, cardID string, st model.PaymentStatus) (int64, error) {
	const q = `
		UPDATE bookings
		SET payment_status = $2
		WHERE vcc_card_id = $1 AND payment_status <> $2`
	tag, err := r.db.Exec(ctx, q, cardID, st)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
