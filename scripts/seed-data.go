package main

import (
	"log"
	"os"
	"time"

	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/utils"
)

// Seeds a demo librarian, members, categories, books, bookings, and ratings.
func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/libradb.db"
	}
	if err := database.InitDatabase(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.DB.Close()

	hash, err := utils.HashPassword("Passw0rd123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	_, err = database.DB.Exec(`INSERT OR IGNORE INTO users (id, name, email, password_hash, role, approved) VALUES
		('librarian1', 'Ada Librarian', 'ada@library.test', ?, 'librarian', 1),
		('member1', 'Mia Member', 'mia@library.test', ?, 'member', 1),
		('member2', 'Paul Pending', 'paul@library.test', ?, 'member', 0)`, hash, hash, hash)
	if err != nil {
		log.Fatalf("Failed to insert users: %v", err)
	}

	_, err = database.DB.Exec(`INSERT OR IGNORE INTO categories (id, name) VALUES
		('cat-fiction', 'Fiction'),
		('cat-science', 'Science')`)
	if err != nil {
		log.Fatalf("Failed to insert categories: %v", err)
	}

	_, err = database.DB.Exec(`INSERT OR IGNORE INTO books (id, title, author, isbn, description, category_id, copies_total, copies_available) VALUES
		('book-dune', 'Dune', 'Frank Herbert', '9780441013593', 'Desert planet epic', 'cat-fiction', 3, 3),
		('book-cosmos', 'Cosmos', 'Carl Sagan', '9780345539434', 'A personal voyage through the universe', 'cat-science', 2, 2),
		('book-hobbit', 'The Hobbit', 'J.R.R. Tolkien', '9780547928227', 'There and back again', 'cat-fiction', 1, 1)`)
	if err != nil {
		log.Fatalf("Failed to insert books: %v", err)
	}

	today := time.Now().Format("2006-01-02")
	nextWeek := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	_, err = database.DB.Exec(`INSERT OR IGNORE INTO bookings (id, user_id, book_id, start_date, end_date, approved) VALUES
		('booking1', 'member1', 'book-dune', ?, ?, 0)`, today, nextWeek)
	if err != nil {
		log.Fatalf("Failed to insert bookings: %v", err)
	}

	_, err = database.DB.Exec(`INSERT OR IGNORE INTO ratings (id, user_id, book_id, score, comment) VALUES
		('rating1', 'member1', 'book-dune', 5, 'A classic.'),
		('rating2', 'member1', 'book-cosmos', 4, 'Still holds up.')`)
	if err != nil {
		log.Fatalf("Failed to insert ratings: %v", err)
	}

	log.Println("Demo data inserted successfully")
}
