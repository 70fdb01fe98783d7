package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx so the same queries
// serve inside and outside a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool, pool: pool}
}

func (r *PgRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		// Already inside a transaction.
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&PgRepository{db: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Helpers

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot
	var start, end int

	err := row.Scan(
		&s.ID,
		&s.ManagerID,
		&s.Date,
		&start,
		&end,
		&s.Status,
		&s.Deleted,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	s.Start = TimeOfDay(start)
	s.End = TimeOfDay(end)
	return &s, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking

	err := row.Scan(
		&b.ID,
		&b.SlotID,
		&b.ArtistID,
		&b.ProducerID,
		&b.Status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

const slotColumns = `id, manager_id, date, start_min, end_min, status, is_deleted, created_at, updated_at`
const bookingColumns = `id, slot_id, artist_id, producer_id, status, notes, created_at, updated_at`

// Slots

func (r *PgRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM slots
		WHERE id = $1
	`, id)
	return scanSlot(row)
}

func (r *PgRepository) CreateSlots(ctx context.Context, slots []Slot) error {
	for _, s := range slots {
		_, err := r.db.Exec(ctx, `
			INSERT INTO slots (id, manager_id, date, start_min, end_min, status, is_deleted, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		`, s.ID, s.ManagerID, s.Date, int(s.Start), int(s.End), s.Status, s.Deleted)
		if err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
	}
	return nil
}

func (r *PgRepository) ExistingWindows(ctx context.Context, managerID uuid.UUID, date time.Time) (map[Window]bool, error) {
	rows, err := r.db.Query(ctx, `
		SELECT start_min, end_min
		FROM slots
		WHERE manager_id = $1 AND date = $2 AND NOT is_deleted
	`, managerID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := make(map[Window]bool)
	for rows.Next() {
		var start, end int
		if err := rows.Scan(&start, &end); err != nil {
			return nil, err
		}
		windows[Window{Start: TimeOfDay(start), End: TimeOfDay(end)}] = true
	}

	return windows, rows.Err()
}

func (r *PgRepository) UpdateSlotStatus(ctx context.Context, id uuid.UUID, from, to SlotStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE slots
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		  AND NOT is_deleted
	`, id, to, from)
	if err != nil {
		return fmt.Errorf("update slot status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFree
	}
	return nil
}

func (r *PgRepository) SetSlotStatus(ctx context.Context, id uuid.UUID, to SlotStatus) error {
	_, err := r.db.Exec(ctx, `
		UPDATE slots
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
	`, id, to)
	if err != nil {
		return fmt.Errorf("set slot status: %w", err)
	}
	return nil
}

func (r *PgRepository) SoftDeleteSlot(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE slots
		SET is_deleted = true,
		    updated_at = now()
		WHERE id = $1
		  AND NOT is_deleted
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *PgRepository) ListSlots(ctx context.Context, day *time.Time, h *Horizon) ([]Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE NOT is_deleted
	`
	var args []any
	switch {
	case day != nil:
		query += ` AND date = $1`
		args = append(args, *day)
	case h != nil:
		query += ` AND (date > $1 OR (date = $1 AND end_min >= $2))`
		args = append(args, h.Today, int(h.Now))
	}
	query += ` ORDER BY date ASC, start_min ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	return result, rows.Err()
}

// Bookings

func (r *PgRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func (r *PgRepository) GetActiveBookingForSlot(ctx context.Context, slotID uuid.UUID) (*Booking, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE slot_id = $1
		  AND status IN ($2, $3, $4)
	`, slotID, StatusPendingProducer, StatusPendingManager, StatusConfirmed)
	return scanBooking(row)
}

func (r *PgRepository) CreateBooking(ctx context.Context, b *Booking) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (id, slot_id, artist_id, producer_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`, b.ID, b.SlotID, b.ArtistID, b.ProducerID, b.Status, b.Notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *PgRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus) (*Booking, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE bookings
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+bookingColumns+`
	`, id, to, from)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			// The booking exists but left the expected status under our feet.
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return b, nil
}

// Expiry reaper

// Wrapped midnight ends (end_min = 0) sort as ended all day; see Horizon.
func (r *PgRepository) PastSlotIDs(ctx context.Context, h Horizon) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id
		FROM slots
		WHERE date < $1
		   OR (date = $1 AND end_min < $2)
	`, h.Today, int(h.Now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *PgRepository) DeleteBookingsBySlot(ctx context.Context, slotIDs []uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM bookings
		WHERE slot_id = ANY($1)
	`, slotIDs)
	if err != nil {
		return 0, fmt.Errorf("delete bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) DeleteSlotsByID(ctx context.Context, slotIDs []uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM slots
		WHERE id = ANY($1)
	`, slotIDs)
	if err != nil {
		return 0, fmt.Errorf("delete slots: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Joined views

const viewColumns = `
	b.id, b.slot_id, s.date, s.start_min, s.end_min, b.status,
	b.artist_id, b.producer_id,
	COALESCE(NULLIF(a.display_name, ''), a.email),
	COALESCE(NULLIF(p.display_name, ''), p.email),
	a.email, p.email
`

const viewJoins = `
	FROM bookings b
	JOIN slots s ON s.id = b.slot_id
	JOIN users a ON a.id = b.artist_id
	JOIN users p ON p.id = b.producer_id
`

func scanView(rows pgx.Rows) (*BookingView, error) {
	var v BookingView
	var start, end int

	err := rows.Scan(
		&v.ID,
		&v.SlotID,
		&v.Date,
		&start,
		&end,
		&v.Status,
		&v.ArtistID,
		&v.ProducerID,
		&v.ArtistName,
		&v.ProducerName,
		&v.ArtistEmail,
		&v.ProducerEmail,
	)
	if err != nil {
		return nil, err
	}

	v.Start = TimeOfDay(start)
	v.End = TimeOfDay(end)
	return &v, nil
}

func (r *PgRepository) queryViews(ctx context.Context, query string, args ...any) ([]BookingView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BookingView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}

	return result, rows.Err()
}

func (r *PgRepository) ListIncomingRequests(ctx context.Context, producerID *uuid.UUID, h Horizon) ([]BookingView, error) {
	query := `
		SELECT ` + viewColumns + viewJoins + `
		WHERE b.status = $1
		  AND (s.date > $2 OR (s.date = $2 AND s.end_min >= $3))
	`
	args := []any{StatusPendingProducer, h.Today, int(h.Now)}
	if producerID != nil {
		query += ` AND b.producer_id = $4`
		args = append(args, *producerID)
	}
	query += ` ORDER BY b.created_at DESC`

	return r.queryViews(ctx, query, args...)
}

func (r *PgRepository) ListManagerQueue(ctx context.Context) ([]BookingView, error) {
	query := `
		SELECT ` + viewColumns + viewJoins + `
		WHERE b.status = $1
		ORDER BY s.date ASC, s.start_min ASC
	`
	return r.queryViews(ctx, query, StatusPendingManager)
}

func (r *PgRepository) ListConfirmedAgenda(ctx context.Context, h Horizon) ([]BookingView, error) {
	query := `
		SELECT ` + viewColumns + viewJoins + `
		WHERE b.status = $1
		  AND (s.date > $2 OR (s.date = $2 AND s.end_min >= $3))
		ORDER BY s.date ASC, s.start_min ASC
	`
	return r.queryViews(ctx, query, StatusConfirmed, h.Today, int(h.Now))
}
