package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/models"
	"github.com/gin-gonic/gin"
)

// Handler exposes the booking engine over HTTP.
type Handler struct {
	engine *Engine
}

func NewHandler() *Handler {
	return &Handler{engine: NewEngine(database.DB)}
}

// NewHandlerWithEngine exists for tests that inject a fixed clock.
func NewHandlerWithEngine(e *Engine) *Handler {
	return &Handler{engine: e}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// Create handles the member self-service request; the booking stays pending
// until a librarian approves it.
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	b, err := h.engine.Create(userID, req.BookID, start, end)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(b))
}

// CreateDirect handles librarian-created bookings on behalf of a member.
func (h *Handler) CreateDirect(c *gin.Context) {
	var req models.CreateDirectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	b, err := h.engine.CreateDirect(req.UserID, req.BookID, start, end)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(b))
}

// List returns every booking for librarians and only the caller's own
// bookings for members.
func (h *Handler) List(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("user_role")

	var (
		bookings []*models.Booking
		err      error
	)
	if role == models.RoleLibrarian {
		bookings, err = h.engine.ListAll()
	} else {
		bookings, err = h.engine.ListByUser(userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]models.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	b, err := h.engine.Get(c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}

	// Members may only see their own bookings.
	if c.GetString("user_role") != models.RoleLibrarian && b.UserID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Booking belongs to another user"})
		return
	}
	c.JSON(http.StatusOK, toResponse(b))
}

func (h *Handler) Approve(c *gin.Context) {
	b, err := h.engine.Approve(c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(b))
}

func (h *Handler) RequestReturn(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	b, err := h.engine.RequestReturn(userID, c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(b))
}

func (h *Handler) ConfirmReturn(c *gin.Context) {
	b, err := h.engine.ConfirmReturn(c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(b))
}

func toResponse(b *models.Booking) models.BookingResponse {
	return models.BookingResponse{Booking: *b, State: b.State()}
}

func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookNotFound), errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNoCopiesAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAlreadyApproved), errors.Is(err, ErrAlreadyReturned),
		errors.Is(err, ErrAlreadyRequested), errors.Is(err, ErrNotApproved),
		errors.Is(err, ErrUserNotEligible):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrForeignBooking):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}
