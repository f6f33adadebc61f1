package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Aawaiz-Soomro/LibraDB/cli/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "libradb",
	Short:   "LibraDB library management CLI",
	Long:    `Command-line client for the LibraDB library management server.`,
	Version: "1.0.0",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create the default configuration file under ~/.libradb.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			printError("Failed to initialize configuration")
			return err
		}
		path, _ := config.GetConfigPath()
		printSuccess(fmt.Sprintf("Configuration written to %s", path))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(bookingCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(systemCmd)
}

func printSuccess(msg string) {
	fmt.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// doAuthed performs an HTTP request with the saved bearer token attached.
func doAuthed(method, path string, body io.Reader) (*http.Response, error) {
	serverURL, err := config.GetServerURL()
	if err != nil {
		printError("Configuration not initialized")
		fmt.Println("Run: libradb init")
		return nil, err
	}
	token, err := config.GetAuthToken()
	if err != nil {
		printError("Not logged in")
		fmt.Println("Run: libradb auth login")
		return nil, err
	}

	req, err := http.NewRequest(method, serverURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return http.DefaultClient.Do(req)
}

// decodeError pulls the server's {"error": ...} message out of a response.
func decodeError(body []byte) string {
	var errResp map[string]string
	if err := json.Unmarshal(body, &errResp); err == nil && errResp["error"] != "" {
		return errResp["error"]
	}
	return string(body)
}
