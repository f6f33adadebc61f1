package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler exposes the counter snapshot at /metrics.
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"users_registered":     GetUsersRegistered(),
		"bookings_created":     GetBookingsCreated(),
		"bookings_approved":    GetBookingsApproved(),
		"bookings_returned":    GetBookingsReturned(),
		"fines_assessed_cents": GetFinesAssessed(),
		"ratings_submitted":    GetRatingsSubmitted(),
	})
}
