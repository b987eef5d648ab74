// Command stresstest hammers a running server with concurrent activity
// recordings for the same subjects and verifies that no update is lost.
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
	"sync/atomic"
	"time"

	"github.com/myrjola/fitcore/internal/logging"
	"github.com/myrjola/fitcore/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	numSubjects          = 5
	workoutsPerSubject   = 20
	maxConcurrentWrites  = 20
	requestTimeout       = 10 * time.Second
	runTimeout           = 5 * time.Minute
	expectedArgsCount    = 2
	percentageMultiplier = 100
	successRateThreshold = 100.0
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

// recordWorkouts fires the concurrent writes and counts successes.
func recordWorkouts(ctx context.Context, c *client, logger *slog.Logger) (int64, error) {
	var succeeded atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)

	event := `{"type": "workout", "duration_min": 30, "calories_burned": 250}`
	for subject := range numSubjects {
		path := fmt.Sprintf("/api/subjects/stress-%d/activities", subject)
		for range workoutsPerSubject {
			g.Go(func() error {
				status, body, err := c.do(ctx, http.MethodPost, path, event)
				if err != nil {
					return err
				}
				if status != http.StatusOK {
					logger.LogAttrs(ctx, slog.LevelWarn, "activity rejected",
						slog.Int("status", status), slog.String("body", body))
					return nil
				}
				succeeded.Add(1)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return succeeded.Load(), fmt.Errorf("concurrent writes: %w", err)
	}
	return succeeded.Load(), nil
}

// verifyCounts checks that every accepted workout is reflected in the state.
func verifyCounts(ctx context.Context, c *client) error {
	for subject := range numSubjects {
		// A login event returns the post-mutation state without affecting
		// workout counts.
		path := fmt.Sprintf("/api/subjects/stress-%d/activities", subject)
		status, body, err := c.do(ctx, http.MethodPost, path, `{"type": "login"}`)
		if err != nil || status != http.StatusOK {
			return fmt.Errorf("read state for subject %d: status %d, err %w", subject, status, err)
		}

		var resp struct {
			State struct {
				TotalWorkouts int `json:"total_workouts"`
			} `json:"state"`
		}
		if err = json.Unmarshal([]byte(body), &resp); err != nil {
			return fmt.Errorf("unmarshal state: %w", err)
		}
		if resp.State.TotalWorkouts != workoutsPerSubject {
			return fmt.Errorf("subject %d: total workouts %d, want %d (lost update)",
				subject, resp.State.TotalWorkouts, workoutsPerSubject)
		}
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	hostname := os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	c := &client{baseURL: url, http: &http.Client{Timeout: requestTimeout}}
	start := time.Now()
	total := int64(numSubjects * workoutsPerSubject)

	succeeded, err := recordWorkouts(ctx, c, logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "stress writes failed", slog.Any("error", err))
		os.Exit(1)
	}

	successRate := float64(succeeded) / float64(total) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "writes completed",
		slog.Int64("succeeded", succeeded),
		slog.Int64("total", total),
		slog.Float64("success_rate", successRate))
	if successRate < successRateThreshold {
		logger.LogAttrs(ctx, slog.LevelError, "success rate below threshold",
			slog.Float64("threshold", successRateThreshold))
		os.Exit(1)
	}

	if err = verifyCounts(ctx, c); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "verification failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Stress test successful 💪", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
