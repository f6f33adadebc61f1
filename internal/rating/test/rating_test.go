package rating_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aawaiz-Soomro/LibraDB/internal/rating"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/logger"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/models"
	"github.com/gin-gonic/gin"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dbPath := t.TempDir() + "/test.db"
	if err := database.InitDatabase(dbPath); err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	logger.Init(logger.ERROR, false, nil)
	gin.SetMode(gin.TestMode)

	mustExec(t, `INSERT INTO users (id, name, email, password_hash, role, approved) VALUES
		('mem1', 'Member', 'm@test', 'x', 'member', 1)`)
	mustExec(t, `INSERT INTO books (id, title, author, isbn) VALUES ('bk1', 'Dune', 'Herbert', '111')`)

	h := rating.NewHandler()
	router := gin.New()
	// Stand-in for the auth middleware.
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "mem1")
		c.Set("user_role", models.RoleMember)
	})
	router.POST("/ratings", h.Add)
	router.GET("/ratings/mine", h.Mine)
	router.GET("/books/:id/ratings", h.ListForBook)
	router.GET("/books/:id/rating-stats", h.Stats)
	return router
}

func mustExec(t *testing.T, query string, args ...interface{}) {
	t.Helper()
	if _, err := database.DB.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func addRating(t *testing.T, router *gin.Engine, score int) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(map[string]interface{}{"book_id": "bk1", "score": score})
	req := httptest.NewRequest("POST", "/ratings", bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func getStats(t *testing.T, router *gin.Engine) models.RatingStats {
	t.Helper()
	req := httptest.NewRequest("GET", "/books/bk1/rating-stats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("stats: %d %s", resp.Code, resp.Body.String())
	}
	var stats models.RatingStats
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("parse stats: %v", err)
	}
	return stats
}

func TestStatsNoRatings(t *testing.T) {
	router := setupRouter(t)

	stats := getStats(t, router)
	if stats.Average != 0 || stats.TotalCount != 0 {
		t.Fatalf("empty stats = %+v, want zero average and count", stats)
	}
}

func TestStatsAverage(t *testing.T) {
	router := setupRouter(t)

	if resp := addRating(t, router, 5); resp.Code != http.StatusCreated {
		t.Fatalf("add rating: %d %s", resp.Code, resp.Body.String())
	}
	if resp := addRating(t, router, 4); resp.Code != http.StatusCreated {
		t.Fatalf("add rating: %d", resp.Code)
	}

	stats := getStats(t, router)
	if stats.Average != 4.5 {
		t.Fatalf("average = %v, want 4.5", stats.Average)
	}
	if stats.TotalCount != 2 {
		t.Fatalf("total_count = %d, want 2", stats.TotalCount)
	}
	if stats.Distribution["5"] != 1 || stats.Distribution["4"] != 1 {
		t.Fatalf("distribution = %v", stats.Distribution)
	}
}

func TestScoreRangeValidated(t *testing.T) {
	router := setupRouter(t)

	if resp := addRating(t, router, 0); resp.Code != http.StatusBadRequest {
		t.Fatalf("score 0: %d, want 400", resp.Code)
	}
	if resp := addRating(t, router, 6); resp.Code != http.StatusBadRequest {
		t.Fatalf("score 6: %d, want 400", resp.Code)
	}
}

func TestDuplicatePairAllowed(t *testing.T) {
	router := setupRouter(t)

	addRating(t, router, 5)
	if resp := addRating(t, router, 3); resp.Code != http.StatusCreated {
		t.Fatalf("second rating by same user: %d, want 201", resp.Code)
	}

	stats := getStats(t, router)
	if stats.TotalCount != 2 {
		t.Fatalf("total_count = %d, want 2 (duplicates allowed)", stats.TotalCount)
	}
}

func TestRatingUnknownBook(t *testing.T) {
	router := setupRouter(t)

	b, _ := json.Marshal(map[string]interface{}{"book_id": "ghost", "score": 5})
	req := httptest.NewRequest("POST", "/ratings", bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("unknown book: %d, want 404", resp.Code)
	}
}

func TestMine(t *testing.T) {
	router := setupRouter(t)

	addRating(t, router, 5)

	req := httptest.NewRequest("GET", "/ratings/mine", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("mine: %d", resp.Code)
	}
	var ratings []models.Rating
	json.Unmarshal(resp.Body.Bytes(), &ratings)
	if len(ratings) != 1 || ratings[0].UserID != "mem1" {
		t.Fatalf("mine returned %d ratings", len(ratings))
	}
}
