package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/Aawaiz-Soomro/LibraDB/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	name  string
	email string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Register, login, and logout commands for LibraDB accounts.`,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new member account",
	Long:  `Register a new member account. The account must be approved by a librarian before login works.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if name == "" {
			return fmt.Errorf("name is required (--name)")
		}
		if email == "" {
			return fmt.Errorf("email is required (--email)")
		}

		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password := string(passwordBytes)

		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password confirmation: %w", err)
		}
		if password != string(confirmBytes) {
			printError("Passwords do not match")
			return fmt.Errorf("passwords do not match")
		}

		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: libradb init")
			return err
		}

		reqBody := map[string]string{
			"name":     name,
			"email":    email,
			"password": password,
		}
		jsonData, _ := json.Marshal(reqBody)

		res, err := http.Post(serverURL+"/auth/register", "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			printError("Registration failed: Server connection error")
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusCreated {
			printError("Registration failed: " + decodeError(body))
			return fmt.Errorf("registration failed (HTTP %d)", res.StatusCode)
		}

		printSuccess("Registered. A librarian must approve the account before you can log in.")
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if email == "" {
			return fmt.Errorf("email is required (--email)")
		}

		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: libradb init")
			return err
		}

		reqBody := map[string]string{
			"email":    email,
			"password": string(passwordBytes),
		}
		jsonData, _ := json.Marshal(reqBody)

		res, err := http.Post(serverURL+"/auth/login", "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			printError("Login failed: Server connection error")
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusOK {
			printError("Login failed: " + decodeError(body))
			return fmt.Errorf("login failed (HTTP %d)", res.StatusCode)
		}

		var authResp struct {
			Token string `json:"token"`
			Role  string `json:"role"`
		}
		if err := json.Unmarshal(body, &authResp); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.User.Email = email
		cfg.User.Token = authResp.Token
		if err := config.Save(cfg); err != nil {
			return err
		}

		printSuccess(fmt.Sprintf("Logged in as %s (%s)", email, authResp.Role))
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := doAuthed(http.MethodPost, "/auth/logout", nil)
		if err == nil {
			res.Body.Close()
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.User.Token = ""
		if err := config.Save(cfg); err != nil {
			return err
		}

		printSuccess("Logged out")
		return nil
	},
}

func init() {
	authRegisterCmd.Flags().StringVar(&name, "name", "", "Full name")
	authRegisterCmd.Flags().StringVar(&email, "email", "", "Email address")
	authLoginCmd.Flags().StringVar(&email, "email", "", "Email address")

	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
}
