package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	healthcheckTimeout int
	healthcheckURL     string
)

// errInvalidHealthResponse marks a reply that could not be decoded.
var errInvalidHealthResponse = errors.New("invalid health response")

// HealthResponse matches the body of GET /health.
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func newHealthcheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check if the server is healthy",
		Long: `Performs a health check by calling the /health endpoint.

This command is used by Docker HEALTHCHECK to monitor container health.
It exits with code 0 if the server is healthy, non-zero otherwise.

Exit codes:
  0 - Server is healthy
  1 - Server is unhealthy or unreachable
  2 - Invalid response from server`,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := healthcheckURL
			if url == "" {
				port := os.Getenv("SERVER_PORT")
				if port == "" {
					port = "8080"
				}
				url = fmt.Sprintf("http://localhost:%s/health", port)
			}

			resp, err := performHealthCheck(cmd.Context(), url, time.Duration(healthcheckTimeout)*time.Second)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Health check failed: %v\n", err)
				if errors.Is(err, errInvalidHealthResponse) {
					os.Exit(2)
				}
				os.Exit(1)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server status: %s\n", resp.Status)
			return nil
		},
	}

	cmd.Flags().IntVar(&healthcheckTimeout, "timeout", 5, "timeout in seconds")
	cmd.Flags().StringVar(&healthcheckURL, "url", "", "health check URL (default: http://localhost:{SERVER_PORT}/health)")
	return cmd
}

// performHealthCheck returns an error unless url reports status "healthy".
func performHealthCheck(ctx context.Context, url string, timeout time.Duration) (HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return HealthResponse{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		if resp.StatusCode != http.StatusOK {
			return HealthResponse{}, fmt.Errorf("unhealthy: status %d", resp.StatusCode)
		}
		return HealthResponse{}, fmt.Errorf("%w: %v", errInvalidHealthResponse, err)
	}
	if resp.StatusCode != http.StatusOK {
		return health, fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	if health.Status != "healthy" {
		return health, fmt.Errorf("unhealthy: status=%s", health.Status)
	}
	return health, nil
}
