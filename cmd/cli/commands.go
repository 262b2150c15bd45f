package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd, metricsCmd, tokenCmd)
	rootCmd.AddCommand(sessionCmd, onlineCmd, presenceCmd)
	rootCmd.AddCommand(sendCmd, acceptCmd, declineCmd, cancelCmd, incomingCmd, outgoingCmd, expireCmd)
	rootCmd.AddCommand(matchCmd, pulseCmd, reconcileCmd)

	tokenCmd.Flags().String("secret", "", "Signing secret (defaults to AUTH_JWT_SECRET)")
	tokenCmd.Flags().String("issuer", "", "Token issuer (defaults to AUTH_JWT_ISSUER)")
	tokenCmd.Flags().String("email", "", "Email claim")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")

	matchCmd.Flags().String("status", "", "Move the match to this status instead of showing it")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a development bearer token for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		secret, _ := cmd.Flags().GetString("secret")
		if secret == "" {
			secret = os.Getenv("AUTH_JWT_SECRET")
		}
		if secret == "" {
			return fmt.Errorf("no signing secret: pass --secret or set AUTH_JWT_SECRET")
		}
		issuer, _ := cmd.Flags().GetString("issuer")
		if issuer == "" {
			issuer = os.Getenv("AUTH_JWT_ISSUER")
		}
		email, _ := cmd.Flags().GetString("email")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		signed, err := auth.NewJWTDirectory(secret, issuer).Issue(auth.Identity{UserID: args[0], Email: email}, ttl)
		if err != nil {
			return err
		}
		fmt.Println(signed)
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:       "session <start|end>",
	Short:     "Start or end the caller's session",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"start", "end"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/session/"+args[0], nil)
	},
}

var onlineCmd = &cobra.Command{
	Use:   "online",
	Short: "List players that are online now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/online", nil)
	},
}

var presenceCmd = &cobra.Command{
	Use:   "presence <true|false>",
	Short: "Set the caller's online flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		online, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("presence must be true or false: %w", err)
		}
		return performRequest(http.MethodPost, "/players/me/presence", map[string]bool{"online": online})
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <receiver-user-id>",
	Short: "Send a match request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/requests", map[string]string{"receiver_id": args[0]})
	},
}

func requestAction(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <request-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return performRequest(http.MethodPost, "/requests/"+args[0]+"/"+action, nil)
		},
	}
}

var (
	acceptCmd  = requestAction("accept", "Accept an incoming match request")
	declineCmd = requestAction("decline", "Decline an incoming match request")
	cancelCmd  = requestAction("cancel", "Cancel an outgoing match request")
)

var incomingCmd = &cobra.Command{
	Use:   "incoming",
	Short: "List pending requests sent to the caller",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/requests/incoming", nil)
	},
}

var outgoingCmd = &cobra.Command{
	Use:   "outgoing",
	Short: "List pending requests sent by the caller",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/requests/outgoing", nil)
	},
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Expire every stale pending request",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/requests/expire", nil)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <match-id>",
	Short: "Show a match, or move it forward with --status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		if status == "" {
			return performRequest(http.MethodGet, "/matches/"+args[0], nil)
		}
		return performRequest(http.MethodPost, "/matches/"+args[0]+"/status", map[string]string{"status": status})
	},
}

var pulseCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Show the community pulse",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/community/pulse", nil)
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run a reconciliation pass now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/reconcile", nil)
	},
}

func performRequest(method, endpoint string, body any) error {
	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(prettyJSON(respBody))
	return nil
}

func prettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
