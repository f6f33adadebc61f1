package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Aawaiz-Soomro/LibraDB/cli/config"
	"github.com/spf13/cobra"
)

var (
	bookTitle       string
	bookAuthor      string
	bookISBN        string
	bookDescription string
	bookCategory    string
	bookCopies      int
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Catalog commands",
	Long:  `Browse and manage the book catalog.`,
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books",
	Long:  `List all books, optionally filtered by category id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: libradb init")
			return err
		}

		listURL := serverURL + "/books"
		if bookCategory != "" {
			listURL += "?category=" + url.QueryEscape(bookCategory)
		}

		res, err := http.Get(listURL)
		if err != nil {
			printError("List failed: Server connection error")
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusOK {
			printError("List failed: " + decodeError(body))
			return fmt.Errorf("list failed (HTTP %d)", res.StatusCode)
		}

		var books []struct {
			ID              string  `json:"id"`
			Title           string  `json:"title"`
			Author          string  `json:"author"`
			ISBN            string  `json:"isbn"`
			CopiesTotal     int     `json:"copies_total"`
			CopiesAvailable int     `json:"copies_available"`
			AverageRating   float64 `json:"average_rating"`
		}
		if err := json.Unmarshal(body, &books); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if len(books) == 0 {
			fmt.Println("No books found.")
			return nil
		}
		for _, b := range books {
			fmt.Printf("%s  %-30s  %-20s  %s  %d/%d available  rating %.2f\n",
				b.ID, b.Title, b.Author, b.ISBN, b.CopiesAvailable, b.CopiesTotal, b.AverageRating)
		}
		return nil
	},
}

var bookAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book (librarian)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if bookTitle == "" || bookAuthor == "" || bookISBN == "" {
			return fmt.Errorf("--title, --author and --isbn are required")
		}

		reqBody := map[string]interface{}{
			"title":        bookTitle,
			"author":       bookAuthor,
			"isbn":         bookISBN,
			"description":  bookDescription,
			"copies_total": bookCopies,
		}
		if bookCategory != "" {
			reqBody["category_id"] = bookCategory
		}
		jsonData, _ := json.Marshal(reqBody)

		res, err := doAuthed(http.MethodPost, "/books", bytes.NewBuffer(jsonData))
		if err != nil {
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusCreated {
			printError("Add failed: " + decodeError(body))
			return fmt.Errorf("add failed (HTTP %d)", res.StatusCode)
		}

		printSuccess(fmt.Sprintf("Book %q added", bookTitle))
		return nil
	},
}

func init() {
	bookListCmd.Flags().StringVar(&bookCategory, "category", "", "Filter by category id")

	bookAddCmd.Flags().StringVar(&bookTitle, "title", "", "Book title")
	bookAddCmd.Flags().StringVar(&bookAuthor, "author", "", "Book author")
	bookAddCmd.Flags().StringVar(&bookISBN, "isbn", "", "ISBN")
	bookAddCmd.Flags().StringVar(&bookDescription, "description", "", "Description")
	bookAddCmd.Flags().StringVar(&bookCategory, "category", "", "Category id")
	bookAddCmd.Flags().IntVar(&bookCopies, "copies", 1, "Total copies")

	bookCmd.AddCommand(bookListCmd)
	bookCmd.AddCommand(bookAddCmd)
}
