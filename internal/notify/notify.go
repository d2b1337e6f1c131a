package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dgnsrekt/apisync/internal/types"
)

// SendSessionSummary posts a human-readable summary of a finished capture
// session to the configured notification endpoint.
func SendSessionSummary(ctx context.Context, client *http.Client, endpoint string, state types.CaptureState) error {
	msg := fmt.Sprintf("capture session for %s finished: %d requests captured, %d synced to collection %s",
		state.TargetHost, state.CapturedCount, state.SyncedCount, state.CollectionID)
	return Send(ctx, client, endpoint, msg)
}

// Send sends a message to the requested endpoint using HTTP POST.
func Send(ctx context.Context, client *http.Client, endpoint, message string) error {
	c := client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(message))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification failed: status=%d", resp.StatusCode)
	}
	return nil
}
