package metrics

import (
	"sync/atomic"
)

// Lifecycle counters for the library. All access is atomic; Reset exists for
// tests.
type Metrics struct {
	usersRegistered    int64
	bookingsCreated    int64
	bookingsApproved   int64
	bookingsReturned   int64
	finesAssessedCents int64
	ratingsSubmitted   int64
}

var global = &Metrics{}

func IncrementUsersRegistered() {
	atomic.AddInt64(&global.usersRegistered, 1)
}

func IncrementBookingsCreated() {
	atomic.AddInt64(&global.bookingsCreated, 1)
}

func IncrementBookingsApproved() {
	atomic.AddInt64(&global.bookingsApproved, 1)
}

func IncrementBookingsReturned() {
	atomic.AddInt64(&global.bookingsReturned, 1)
}

func AddFineAssessed(cents int64) {
	atomic.AddInt64(&global.finesAssessedCents, cents)
}

func IncrementRatingsSubmitted() {
	atomic.AddInt64(&global.ratingsSubmitted, 1)
}

func GetUsersRegistered() int64 {
	return atomic.LoadInt64(&global.usersRegistered)
}

func GetBookingsCreated() int64 {
	return atomic.LoadInt64(&global.bookingsCreated)
}

func GetBookingsApproved() int64 {
	return atomic.LoadInt64(&global.bookingsApproved)
}

func GetBookingsReturned() int64 {
	return atomic.LoadInt64(&global.bookingsReturned)
}

func GetFinesAssessed() int64 {
	return atomic.LoadInt64(&global.finesAssessedCents)
}

func GetRatingsSubmitted() int64 {
	return atomic.LoadInt64(&global.ratingsSubmitted)
}

func Reset() {
	atomic.StoreInt64(&global.usersRegistered, 0)
	atomic.StoreInt64(&global.bookingsCreated, 0)
	atomic.StoreInt64(&global.bookingsApproved, 0)
	atomic.StoreInt64(&global.bookingsReturned, 0)
	atomic.StoreInt64(&global.finesAssessedCents, 0)
	atomic.StoreInt64(&global.ratingsSubmitted, 0)
}
