package models

import "time"

type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Book struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Description     string    `json:"description" db:"description"`
	CategoryID      string    `json:"category_id,omitempty" db:"category_id"`
	CopiesTotal     int       `json:"copies_total" db:"copies_total"`
	CopiesAvailable int       `json:"copies_available" db:"copies_available"`
	AverageRating   float64   `json:"average_rating"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateBookRequest creates a book. CopiesAvailable defaults to CopiesTotal
// when omitted and is clamped so it never exceeds CopiesTotal.
type CreateBookRequest struct {
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	ISBN            string `json:"isbn" binding:"required"`
	Description     string `json:"description"`
	CategoryID      string `json:"category_id"`
	CopiesTotal     int    `json:"copies_total" binding:"omitempty,min=1"`
	CopiesAvailable *int   `json:"copies_available" binding:"omitempty,min=0"`
}

// UpdateBookRequest is a full replace of the book's editable fields.
type UpdateBookRequest struct {
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	ISBN            string `json:"isbn" binding:"required"`
	Description     string `json:"description"`
	CategoryID      string `json:"category_id"`
	CopiesTotal     int    `json:"copies_total" binding:"required,min=1"`
	CopiesAvailable *int   `json:"copies_available" binding:"omitempty,min=0"`
}

type ListBooksRequest struct {
	Category string `form:"category"`
}
