package booking

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserNotEligible   = errors.New("user is not an approved member")
	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrForeignBooking    = errors.New("booking belongs to another user")
	ErrAlreadyApproved   = errors.New("booking already approved")
	ErrAlreadyReturned   = errors.New("booking already returned")
	ErrAlreadyRequested  = errors.New("return already requested")
	ErrNotApproved       = errors.New("booking not approved")
)
