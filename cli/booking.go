package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	bookingBookID string
	bookingStart  string
	bookingEnd    string
)

var bookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Booking commands",
	Long:  `Request, approve, and return book bookings.`,
}

var bookingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookings",
	Long:  `List bookings: librarians see every booking, members see their own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := doAuthed(http.MethodGet, "/bookings", nil)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusOK {
			printError("List failed: " + decodeError(body))
			return fmt.Errorf("list failed (HTTP %d)", res.StatusCode)
		}

		var bookings []struct {
			ID         string `json:"id"`
			BookID     string `json:"book_id"`
			UserID     string `json:"user_id"`
			StartDate  string `json:"start_date"`
			EndDate    string `json:"end_date"`
			State      string `json:"state"`
			FineAmount int64  `json:"fine_amount"`
		}
		if err := json.Unmarshal(body, &bookings); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if len(bookings) == 0 {
			fmt.Println("No bookings found.")
			return nil
		}
		for _, b := range bookings {
			line := fmt.Sprintf("%s  book=%s user=%s  %s → %s  [%s]",
				b.ID, b.BookID, b.UserID, b.StartDate[:10], b.EndDate[:10], b.State)
			if b.FineAmount > 0 {
				line += fmt.Sprintf("  fine=%d.%02d", b.FineAmount/100, b.FineAmount%100)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var bookingRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Request a booking (member)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if bookingBookID == "" || bookingStart == "" || bookingEnd == "" {
			return fmt.Errorf("--book, --start and --end are required")
		}

		reqBody := map[string]string{
			"book_id":    bookingBookID,
			"start_date": bookingStart,
			"end_date":   bookingEnd,
		}
		jsonData, _ := json.Marshal(reqBody)

		res, err := doAuthed(http.MethodPost, "/bookings", bytes.NewBuffer(jsonData))
		if err != nil {
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusCreated {
			printError("Request failed: " + decodeError(body))
			return fmt.Errorf("request failed (HTTP %d)", res.StatusCode)
		}

		printSuccess("Booking requested, awaiting librarian approval")
		return nil
	},
}

var bookingApproveCmd = &cobra.Command{
	Use:   "approve [booking-id]",
	Short: "Approve a pending booking (librarian)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bookingAction(args[0], "approve", "Booking approved")
	},
}

var bookingRequestReturnCmd = &cobra.Command{
	Use:   "request-return [booking-id]",
	Short: "Request a return (member)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bookingAction(args[0], "request-return", "Return requested")
	},
}

var bookingReturnCmd = &cobra.Command{
	Use:   "return [booking-id]",
	Short: "Confirm a return (librarian)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("booking id is required")
		}
		return bookingAction(args[0], "return", "Return confirmed")
	},
}

func bookingAction(id, action, successMsg string) error {
	res, err := doAuthed(http.MethodPost, "/bookings/"+id+"/"+action, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		printError("Failed: " + decodeError(body))
		return fmt.Errorf("%s failed (HTTP %d)", action, res.StatusCode)
	}

	var b struct {
		FineAmount int64 `json:"fine_amount"`
	}
	_ = json.Unmarshal(body, &b)

	printSuccess(successMsg)
	if action == "return" && b.FineAmount > 0 {
		fmt.Printf("Fine due: %d.%02d\n", b.FineAmount/100, b.FineAmount%100)
	}
	return nil
}

func init() {
	bookingRequestCmd.Flags().StringVar(&bookingBookID, "book", "", "Book id")
	bookingRequestCmd.Flags().StringVar(&bookingStart, "start", "", "Start date (YYYY-MM-DD)")
	bookingRequestCmd.Flags().StringVar(&bookingEnd, "end", "", "End date (YYYY-MM-DD)")

	bookingCmd.AddCommand(bookingListCmd)
	bookingCmd.AddCommand(bookingRequestCmd)
	bookingCmd.AddCommand(bookingApproveCmd)
	bookingCmd.AddCommand(bookingRequestReturnCmd)
	bookingCmd.AddCommand(bookingReturnCmd)
}
