package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User administration commands (librarian)",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := doAuthed(http.MethodGet, "/users", nil)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusOK {
			printError("List failed: " + decodeError(body))
			return fmt.Errorf("list failed (HTTP %d)", res.StatusCode)
		}

		var users []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Email    string `json:"email"`
			Role     string `json:"role"`
			Approved bool   `json:"approved"`
		}
		if err := json.Unmarshal(body, &users); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		for _, u := range users {
			status := "pending"
			if u.Approved {
				status = "approved"
			}
			fmt.Printf("%s  %-25s  %-30s  %-10s  %s\n", u.ID, u.Name, u.Email, u.Role, status)
		}
		return nil
	},
}

var userApproveCmd = &cobra.Command{
	Use:   "approve [user-id]",
	Short: "Approve a pending member registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := doAuthed(http.MethodPost, "/users/"+args[0]+"/approve", nil)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusOK {
			printError("Approve failed: " + decodeError(body))
			return fmt.Errorf("approve failed (HTTP %d)", res.StatusCode)
		}

		printSuccess("Member approved")
		return nil
	},
}

func init() {
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userApproveCmd)
}
