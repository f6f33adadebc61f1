package catalog_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aawaiz-Soomro/LibraDB/internal/catalog"
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

	h := catalog.NewHandler()
	router := gin.New()
	router.POST("/books", h.CreateBook)
	router.GET("/books", h.ListBooks)
	router.GET("/books/:id", h.GetBook)
	router.PUT("/books/:id", h.UpdateBook)
	router.DELETE("/books/:id", h.DeleteBook)
	router.POST("/categories", h.CreateCategory)
	router.GET("/categories", h.ListCategories)
	router.DELETE("/categories/:id", h.DeleteCategory)
	return router
}

func doJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func createBook(t *testing.T, router *gin.Engine, payload map[string]interface{}) models.Book {
	t.Helper()
	resp := doJSON(router, "POST", "/books", payload)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create book: %d %s", resp.Code, resp.Body.String())
	}
	var b models.Book
	if err := json.Unmarshal(resp.Body.Bytes(), &b); err != nil {
		t.Fatalf("parse book: %v", err)
	}
	return b
}

func TestCreateBookDefaultsAvailableToTotal(t *testing.T) {
	router := setupRouter(t)

	b := createBook(t, router, map[string]interface{}{
		"title": "Dune", "author": "Herbert", "isbn": "111", "copies_total": 4,
	})
	if b.CopiesTotal != 4 || b.CopiesAvailable != 4 {
		t.Fatalf("copies = %d/%d, want 4/4", b.CopiesAvailable, b.CopiesTotal)
	}
}

func TestCreateBookClampsAvailable(t *testing.T) {
	router := setupRouter(t)

	b := createBook(t, router, map[string]interface{}{
		"title": "Dune", "author": "Herbert", "isbn": "111",
		"copies_total": 2, "copies_available": 9,
	})
	if b.CopiesAvailable != 2 {
		t.Fatalf("copies_available = %d, want clamp to 2", b.CopiesAvailable)
	}
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	router := setupRouter(t)

	createBook(t, router, map[string]interface{}{"title": "Dune", "author": "Herbert", "isbn": "111"})
	resp := doJSON(router, "POST", "/books", map[string]interface{}{
		"title": "Dune 2", "author": "Herbert", "isbn": "111",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate isbn: %d, want 409", resp.Code)
	}
}

func TestUpdateBookNotFound(t *testing.T) {
	router := setupRouter(t)

	resp := doJSON(router, "PUT", "/books/ghost", map[string]interface{}{
		"title": "X", "author": "Y", "isbn": "1", "copies_total": 1,
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("update missing book: %d, want 404", resp.Code)
	}
}

func TestUpdateBookFullReplace(t *testing.T) {
	router := setupRouter(t)

	b := createBook(t, router, map[string]interface{}{"title": "Dune", "author": "Herbert", "isbn": "111"})

	resp := doJSON(router, "PUT", "/books/"+b.ID, map[string]interface{}{
		"title": "Dune Messiah", "author": "Frank Herbert", "isbn": "222",
		"description": "Book two", "copies_total": 5, "copies_available": 3,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update: %d %s", resp.Code, resp.Body.String())
	}
	var updated models.Book
	json.Unmarshal(resp.Body.Bytes(), &updated)
	if updated.Title != "Dune Messiah" || updated.ISBN != "222" ||
		updated.CopiesTotal != 5 || updated.CopiesAvailable != 3 {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestListBooksCategoryFilter(t *testing.T) {
	router := setupRouter(t)

	resp := doJSON(router, "POST", "/categories", map[string]string{"name": "Fiction"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create category: %d", resp.Code)
	}
	var cat struct {
		ID string `json:"id"`
	}
	json.Unmarshal(resp.Body.Bytes(), &cat)

	createBook(t, router, map[string]interface{}{
		"title": "Dune", "author": "Herbert", "isbn": "111", "category_id": cat.ID,
	})
	createBook(t, router, map[string]interface{}{
		"title": "Cosmos", "author": "Sagan", "isbn": "222",
	})

	resp = doJSON(router, "GET", "/books?category="+cat.ID, nil)
	var filtered []models.Book
	json.Unmarshal(resp.Body.Bytes(), &filtered)
	if len(filtered) != 1 || filtered[0].Title != "Dune" {
		t.Fatalf("category filter returned %d books", len(filtered))
	}

	resp = doJSON(router, "GET", "/books", nil)
	var all []models.Book
	json.Unmarshal(resp.Body.Bytes(), &all)
	if len(all) != 2 {
		t.Fatalf("unfiltered list returned %d books, want 2", len(all))
	}
}

func TestDuplicateCategoryName(t *testing.T) {
	router := setupRouter(t)

	doJSON(router, "POST", "/categories", map[string]string{"name": "Fiction"})
	if resp := doJSON(router, "POST", "/categories", map[string]string{"name": "Fiction"}); resp.Code != http.StatusConflict {
		t.Fatalf("duplicate category: %d, want 409", resp.Code)
	}
}

func TestDeleteBookCascades(t *testing.T) {
	router := setupRouter(t)

	b := createBook(t, router, map[string]interface{}{"title": "Dune", "author": "Herbert", "isbn": "111"})

	mustExec(t, `INSERT INTO users (id, name, email, password_hash, role, approved) VALUES ('u1', 'U', 'u@test', 'x', 'member', 1)`)
	mustExec(t, `INSERT INTO bookings (id, user_id, book_id, start_date, end_date) VALUES ('bkg1', 'u1', ?, '2026-01-01', '2026-01-08')`, b.ID)
	mustExec(t, `INSERT INTO ratings (id, user_id, book_id, score) VALUES ('r1', 'u1', ?, 5)`, b.ID)

	if resp := doJSON(router, "DELETE", "/books/"+b.ID, nil); resp.Code != http.StatusOK {
		t.Fatalf("delete book: %d", resp.Code)
	}

	if n := count(t, "bookings"); n != 0 {
		t.Fatalf("bookings left after book delete: %d", n)
	}
	if n := count(t, "ratings"); n != 0 {
		t.Fatalf("ratings left after book delete: %d", n)
	}
}

func TestDeleteCategoryCascadesToBooks(t *testing.T) {
	router := setupRouter(t)

	resp := doJSON(router, "POST", "/categories", map[string]string{"name": "Fiction"})
	var cat struct {
		ID string `json:"id"`
	}
	json.Unmarshal(resp.Body.Bytes(), &cat)

	createBook(t, router, map[string]interface{}{
		"title": "Dune", "author": "Herbert", "isbn": "111", "category_id": cat.ID,
	})

	if resp := doJSON(router, "DELETE", "/categories/"+cat.ID, nil); resp.Code != http.StatusOK {
		t.Fatalf("delete category: %d", resp.Code)
	}
	if n := count(t, "books"); n != 0 {
		t.Fatalf("books left after category delete: %d", n)
	}
}

func mustExec(t *testing.T, query string, args ...interface{}) {
	t.Helper()
	if _, err := database.DB.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := database.DB.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
