package booking

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Aawaiz-Soomro/LibraDB/pkg/logger"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/metrics"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/models"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/utils"
)

const dateLayout = "2006-01-02"

// FinePerDayCents is charged for every full day a return lands past the
// agreed end date. The fine is computed once, when the librarian confirms
// the return, and never recalculated afterwards.
const FinePerDayCents = 100

// Engine owns the booking state machine and the copies_available counter on
// books. A copy is reserved when a booking is approved (not when requested)
// and released when the return is confirmed. Caller identity is explicit on
// every operation; the engine performs the per-booking ownership check, role
// checks belong to the HTTP middleware.
type Engine struct {
	db  *sql.DB
	log *logger.Logger
	now func() time.Time
}

func NewEngine(db *sql.DB) *Engine {
	return NewEngineWithClock(db, time.Now)
}

// NewEngineWithClock pins the engine's notion of "today"; fines depend on it.
func NewEngineWithClock(db *sql.DB, now func() time.Time) *Engine {
	return &Engine{
		db:  db,
		log: logger.GetLogger().WithContext("component", "booking_engine"),
		now: now,
	}
}

// today truncates to a date, since fines count whole days.
func (e *Engine) today() time.Time {
	y, m, d := e.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Create inserts a pending booking for the member identified by userID.
// Availability is checked but NOT decremented; the copy is only reserved once
// a librarian approves the request.
func (e *Engine) Create(userID, bookID string, start, end time.Time) (*models.Booking, error) {
	if start.Before(e.today()) || end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	var available int
	err := e.db.QueryRow(`SELECT copies_available FROM books WHERE id = ?`, bookID).Scan(&available)
	if err == sql.ErrNoRows {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query book: %w", err)
	}
	if available < 1 {
		return nil, ErrNoCopiesAvailable
	}

	return e.insert(userID, bookID, start, end, false)
}

// CreateDirect is the librarian path: the booking is born approved and the
// copy is reserved immediately. The target user must be an approved member.
func (e *Engine) CreateDirect(userID, bookID string, start, end time.Time) (*models.Booking, error) {
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	var role string
	var approved bool
	err := e.db.QueryRow(`SELECT role, approved FROM users WHERE id = ?`, userID).Scan(&role, &approved)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if role != models.RoleMember || !approved {
		return nil, ErrUserNotEligible
	}

	tx, err := e.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := reserveCopy(tx, bookID); err != nil {
		return nil, err
	}

	b, err := insertTx(tx, userID, bookID, start, end, true)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	metrics.IncrementBookingsCreated()
	metrics.IncrementBookingsApproved()
	e.log.Info("booking_created_direct", "booking_id", b.ID, "book_id", bookID, "user_id", userID)
	return b, nil
}

func (e *Engine) insert(userID, bookID string, start, end time.Time, approved bool) (*models.Booking, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	b, err := insertTx(tx, userID, bookID, start, end, approved)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	metrics.IncrementBookingsCreated()
	e.log.Info("booking_created", "booking_id", b.ID, "book_id", bookID, "user_id", userID)
	return b, nil
}

func insertTx(tx *sql.Tx, userID, bookID string, start, end time.Time, approved bool) (*models.Booking, error) {
	id, err := utils.GenerateID(16)
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO bookings (id, user_id, book_id, start_date, end_date, approved) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, bookID, start.Format(dateLayout), end.Format(dateLayout), approved,
	)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	return &models.Booking{
		ID:        id,
		UserID:    userID,
		BookID:    bookID,
		StartDate: start,
		EndDate:   end,
		Approved:  approved,
	}, nil
}

// reserveCopy is an atomic conditional decrement, so two concurrent approvals
// cannot take the same last copy.
func reserveCopy(tx *sql.Tx, bookID string) error {
	res, err := tx.Exec(
		`UPDATE books SET copies_available = copies_available - 1, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND copies_available > 0`, bookID)
	if err != nil {
		return fmt.Errorf("reserve copy: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve copy: %w", err)
	}
	if n == 0 {
		var exists int
		if err := tx.QueryRow(`SELECT 1 FROM books WHERE id = ?`, bookID).Scan(&exists); err == sql.ErrNoRows {
			return ErrBookNotFound
		} else if err != nil {
			return fmt.Errorf("query book: %w", err)
		}
		return ErrNoCopiesAvailable
	}
	return nil
}

// releaseCopy puts a copy back, capped at copies_total.
func releaseCopy(tx *sql.Tx, bookID string) error {
	_, err := tx.Exec(
		`UPDATE books SET copies_available = copies_available + 1, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND copies_available < copies_total`, bookID)
	if err != nil {
		return fmt.Errorf("release copy: %w", err)
	}
	return nil
}

// Approve moves a pending booking to active and reserves a copy.
func (e *Engine) Approve(bookingID string) (*models.Booking, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	b, err := getTx(tx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Approved {
		return nil, ErrAlreadyApproved
	}

	if err := reserveCopy(tx, b.BookID); err != nil {
		return nil, err
	}

	_, err = tx.Exec(`UPDATE bookings SET approved = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	b.Approved = true
	metrics.IncrementBookingsApproved()
	e.log.Info("booking_approved", "booking_id", bookingID, "book_id", b.BookID)
	return b, nil
}

// RequestReturn flags an active booking for return. Only the owning member
// may request it; this is the engine's one per-booking authorization check.
func (e *Engine) RequestReturn(callerID, bookingID string) (*models.Booking, error) {
	b, err := e.Get(bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != callerID {
		return nil, ErrForeignBooking
	}
	if !b.Approved {
		return nil, ErrNotApproved
	}
	if b.Returned {
		return nil, ErrAlreadyReturned
	}
	if b.ReturnRequested {
		return nil, ErrAlreadyRequested
	}

	_, err = e.db.Exec(`UPDATE bookings SET return_requested = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	b.ReturnRequested = true
	e.log.Info("return_requested", "booking_id", bookingID, "user_id", callerID)
	return b, nil
}

// ConfirmReturn finalizes a booking: the copy goes back on the shelf and the
// fine is fixed at FinePerDayCents per day past the agreed end date, never
// negative.
func (e *Engine) ConfirmReturn(bookingID string) (*models.Booking, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	b, err := getTx(tx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Approved {
		return nil, ErrNotApproved
	}
	if b.Returned {
		return nil, ErrAlreadyReturned
	}

	returnedAt := e.today()
	fine := ComputeFine(b.EndDate, returnedAt)

	_, err = tx.Exec(
		`UPDATE bookings SET returned = 1, return_requested = 0, returned_at = ?, fine_amount = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ?`,
		returnedAt.Format(dateLayout), fine, bookingID,
	)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	if err := releaseCopy(tx, b.BookID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	b.Returned = true
	b.ReturnRequested = false
	b.ReturnedAt = &returnedAt
	b.FineAmount = fine

	metrics.IncrementBookingsReturned()
	if fine > 0 {
		metrics.AddFineAssessed(fine)
	}
	e.log.Info("booking_returned", "booking_id", bookingID, "book_id", b.BookID, "fine_cents", fine)
	return b, nil
}

// ComputeFine charges FinePerDayCents per full day between the agreed end
// date and the actual return date. Early or on-time returns cost nothing.
func ComputeFine(endDate, returnedAt time.Time) int64 {
	days := int64(returnedAt.Sub(endDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days * FinePerDayCents
}

func (e *Engine) Get(bookingID string) (*models.Booking, error) {
	return scanBooking(e.db.QueryRow(selectBooking+` WHERE id = ?`, bookingID))
}

func getTx(tx *sql.Tx, bookingID string) (*models.Booking, error) {
	return scanBooking(tx.QueryRow(selectBooking+` WHERE id = ?`, bookingID))
}

// ListAll returns every booking, newest start date first.
func (e *Engine) ListAll() ([]*models.Booking, error) {
	rows, err := e.db.Query(selectBooking + ` ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListByUser returns the given member's bookings, newest start date first.
func (e *Engine) ListByUser(userID string) ([]*models.Booking, error) {
	rows, err := e.db.Query(selectBooking+` WHERE user_id = ? ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

const selectBooking = `SELECT id, user_id, book_id, start_date, end_date, approved, returned, return_requested, returned_at, fine_amount, created_at, updated_at FROM bookings`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// The driver converts DATE/TIMESTAMP columns to time.Time on read, so the
// date columns scan directly.
func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var returnedAt sql.NullTime

	err := row.Scan(&b.ID, &b.UserID, &b.BookID, &b.StartDate, &b.EndDate,
		&b.Approved, &b.Returned, &b.ReturnRequested, &returnedAt, &b.FineAmount,
		&b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}

	if returnedAt.Valid {
		t := returnedAt.Time
		b.ReturnedAt = &t
	}
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]*models.Booking, error) {
	bookings := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
