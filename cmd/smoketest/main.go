// Command smoketest exercises a running server end to end: sample ingestion,
// metrics, plan generation and export, activity recording, and the summary.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myrjola/fitcore/internal/logging"
	"github.com/myrjola/fitcore/internal/testhelpers"
)

const (
	scenarioTimeout = 30 * time.Second
	readyTimeout    = 30 * time.Second
	readyPollDelay  = 500 * time.Millisecond
)

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) do(ctx context.Context, method, path, body string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("new request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, string(respBody), nil
}

func (c *client) waitForReady(ctx context.Context) error {
	deadline := time.Now().Add(readyTimeout)
	for time.Now().Before(deadline) {
		status, _, err := c.do(ctx, http.MethodGet, "/api/healthy", "")
		if err == nil && status == http.StatusOK {
			return nil
		}
		time.Sleep(readyPollDelay)
	}
	return fmt.Errorf("server not ready within %s", readyTimeout)
}

func runScenario(ctx context.Context, c *client) error {
	ctx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	subject := fmt.Sprintf("smoke-%d", time.Now().UnixNano())
	base := "/api/subjects/" + subject

	sample := `{"weight_kg": 72, "height_cm": 178, "sex": "male", "age_years": 28}`
	if status, body, err := c.do(ctx, http.MethodPost, base+"/samples", sample); err != nil || status != http.StatusCreated {
		return fmt.Errorf("append sample: status %d, body %s, err %w", status, body, err)
	}

	status, body, err := c.do(ctx, http.MethodGet, base+"/metrics?activityLevel=moderate", "")
	if err != nil || status != http.StatusOK {
		return fmt.Errorf("metrics: status %d, body %s, err %w", status, body, err)
	}
	var derived struct {
		BMI float64 `json:"bmi"`
	}
	if err = json.Unmarshal([]byte(body), &derived); err != nil {
		return fmt.Errorf("unmarshal metrics: %w", err)
	}
	if derived.BMI <= 0 {
		return fmt.Errorf("implausible bmi %f", derived.BMI)
	}

	planReq := `{"goal": {"objective": "endurance", "daily_training_hours": 1.0}}`
	if status, body, err = c.do(ctx, http.MethodPost, base+"/plans", planReq); err != nil || status != http.StatusCreated {
		return fmt.Errorf("generate plan: status %d, body %s, err %w", status, body, err)
	}

	if status, body, err = c.do(ctx, http.MethodGet, base+"/plans/latest?format=markdown", ""); err != nil ||
		status != http.StatusOK || !strings.Contains(body, "# Training plan") {
		return fmt.Errorf("export plan: status %d, err %w", status, err)
	}

	event := `{"type": "workout", "duration_min": 45, "calories_burned": 400}`
	if status, body, err = c.do(ctx, http.MethodPost, base+"/activities", event); err != nil || status != http.StatusOK {
		return fmt.Errorf("record activity: status %d, body %s, err %w", status, body, err)
	}

	if status, body, err = c.do(ctx, http.MethodGet, base+"/summary?days=30", ""); err != nil || status != http.StatusOK {
		return fmt.Errorf("summary: status %d, body %s, err %w", status, body, err)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	hostname := os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	c := &client{baseURL: url, http: &http.Client{Timeout: 10 * time.Second}} //nolint:mnd // request timeout.
	start := time.Now()

	if err := c.waitForReady(ctx); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err := runScenario(ctx, c); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke scenario failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
