package catalog

import (
	"database/sql"
	"math"
	"net/http"
	"strings"

	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/logger"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/models"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handler handles categories and books. Copy counts are normalized here so
// copies_available never exceeds copies_total; the booking engine keeps that
// invariant for lifecycle operations.
type Handler struct {
	log *logger.Logger
}

func NewHandler() *Handler {
	return &Handler{log: logger.GetLogger().WithContext("component", "catalog")}
}

// ---- Categories ----

func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := utils.GenerateID(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate ID"})
		return
	}

	_, err = database.DB.Exec(`INSERT INTO categories (id, name) VALUES (?, ?)`, id, req.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: categories.name") {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	h.log.Info("category_created", "category_id", id, "name", req.Name)
	c.JSON(http.StatusCreated, gin.H{"id": id, "name": req.Name})
}

func (h *Handler) ListCategories(c *gin.Context) {
	rows, err := database.DB.Query(`SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		categories = append(categories, cat)
	}
	c.JSON(http.StatusOK, categories)
}

// DeleteCategory removes a category and, via FK cascade, its books together
// with their bookings and ratings.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	res, err := database.DB.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	h.log.Info("category_deleted", "category_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// ---- Books ----

// normalizeCopies applies the default (available = total when omitted) and
// clamps available into [0, total].
func normalizeCopies(total int, available *int) (int, int) {
	if total < 1 {
		total = 1
	}
	avail := total
	if available != nil {
		avail = *available
	}
	if avail > total {
		avail = total
	}
	if avail < 0 {
		avail = 0
	}
	return total, avail
}

func (h *Handler) CreateBook(c *gin.Context) {
	var req models.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total, avail := normalizeCopies(req.CopiesTotal, req.CopiesAvailable)

	id, err := utils.GenerateID(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate ID"})
		return
	}

	_, err = database.DB.Exec(
		`INSERT INTO books (id, title, author, isbn, description, category_id, copies_total, copies_available)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.Title, req.Author, req.ISBN, req.Description, nullable(req.CategoryID), total, avail)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: books.isbn") {
			c.JSON(http.StatusConflict, gin.H{"error": "ISBN already exists"})
			return
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		h.log.Error("insert_book_failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create book"})
		return
	}

	h.log.Info("book_created", "book_id", id, "title", req.Title)

	book, err := h.getBook(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, book)
}

// UpdateBook is a full replace of the editable fields.
func (h *Handler) UpdateBook(c *gin.Context) {
	id := c.Param("id")

	var req models.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total, avail := normalizeCopies(req.CopiesTotal, req.CopiesAvailable)

	res, err := database.DB.Exec(
		`UPDATE books SET title = ?, author = ?, isbn = ?, description = ?, category_id = ?,
                copies_total = ?, copies_available = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ?`,
		req.Title, req.Author, req.ISBN, req.Description, nullable(req.CategoryID), total, avail, id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: books.isbn") {
			c.JSON(http.StatusConflict, gin.H{"error": "ISBN already exists"})
			return
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	book, err := h.getBook(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes the book; bookings and ratings follow via FK cascade.
func (h *Handler) DeleteBook(c *gin.Context) {
	id := c.Param("id")
	res, err := database.DB.Exec(`DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	h.log.Info("book_deleted", "book_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted"})
}

// ListBooks returns every book, optionally filtered by exact category id.
// No pagination; the catalog is assumed to stay small.
func (h *Handler) ListBooks(c *gin.Context) {
	var req models.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := selectBook
	args := []interface{}{}
	if req.Category != "" {
		query += ` WHERE b.category_id = ?`
		args = append(args, req.Category)
	}
	query += ` GROUP BY b.id ORDER BY b.created_at DESC`

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		books = append(books, *book)
	}
	c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c *gin.Context) {
	book, err := h.getBook(c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, book)
}

const selectBook = `
    SELECT b.id, b.title, b.author, b.isbn, b.description, b.category_id,
           b.copies_total, b.copies_available, b.created_at, b.updated_at,
           COALESCE(AVG(r.score), 0)
    FROM books b
    LEFT JOIN ratings r ON r.book_id = b.id`

func (h *Handler) getBook(id string) (*models.Book, error) {
	rows, err := database.DB.Query(selectBook+` WHERE b.id = ? GROUP BY b.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	return scanBook(rows)
}

func scanBook(rows *sql.Rows) (*models.Book, error) {
	var b models.Book
	var description, categoryID sql.NullString
	var avg float64

	err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &description, &categoryID,
		&b.CopiesTotal, &b.CopiesAvailable, &b.CreatedAt, &b.UpdatedAt, &avg)
	if err != nil {
		return nil, err
	}
	b.Description = description.String
	b.CategoryID = categoryID.String
	b.AverageRating = math.Round(avg*100) / 100
	return &b, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
