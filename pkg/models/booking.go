package models

import "time"

// Booking state names as exposed over the API. A booking moves
// pending -> active -> return_requested -> returned; availability of the
// booked copy is held from approval until the return is confirmed.
const (
	BookingPending         = "pending"
	BookingActive          = "active"
	BookingReturnRequested = "return_requested"
	BookingReturned        = "returned"
)

type Booking struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	BookID          string     `json:"book_id" db:"book_id"`
	StartDate       time.Time  `json:"start_date" db:"start_date"`
	EndDate         time.Time  `json:"end_date" db:"end_date"`
	Approved        bool       `json:"approved" db:"approved"`
	Returned        bool       `json:"returned" db:"returned"`
	ReturnRequested bool       `json:"return_requested" db:"return_requested"`
	ReturnedAt      *time.Time `json:"returned_at,omitempty" db:"returned_at"`
	FineAmount      int64      `json:"fine_amount" db:"fine_amount"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

func (b *Booking) State() string {
	switch {
	case b.Returned:
		return BookingReturned
	case b.ReturnRequested:
		return BookingReturnRequested
	case b.Approved:
		return BookingActive
	default:
		return BookingPending
	}
}

// CreateBookingRequest is the member self-service request. Dates are
// YYYY-MM-DD; start must not be in the past and end must not precede start.
type CreateBookingRequest struct {
	BookID    string `json:"book_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// CreateDirectBookingRequest is the librarian-side creation. The booking is
// born approved and reserves a copy immediately.
type CreateDirectBookingRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	BookID    string `json:"book_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type BookingResponse struct {
	Booking
	State string `json:"state"`
}
