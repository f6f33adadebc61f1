package models

import "time"

type Rating struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	BookID    string    `json:"book_id" db:"book_id"`
	Score     int       `json:"score" db:"score"`
	Comment   string    `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type AddRatingRequest struct {
	BookID  string `json:"book_id" binding:"required"`
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type RatingStats struct {
	Average      float64        `json:"average"`
	TotalCount   int            `json:"total_count"`
	Distribution map[string]int `json:"distribution"`
}
