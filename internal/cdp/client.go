// Package cdp attaches to a running Chromium over the DevTools protocol and
// feeds network events into the capture intake.
package cdp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/dgnsrekt/apisync/internal/capture"
	"github.com/dgnsrekt/apisync/internal/config"
	"github.com/dgnsrekt/apisync/internal/types"
)

// Client manages CDP connections to browser tabs.
type Client struct {
	cfg         *config.Config
	intake      *capture.Intake
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabs        map[target.ID]*TabContext
	tabsMu      sync.RWMutex
}

// TabContext is one attached page target.
type TabContext struct {
	ID     target.ID
	URL    string
	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a client feeding the given intake.
func NewClient(cfg *config.Config, intake *capture.Intake) *Client {
	return &Client{
		cfg:    cfg,
		intake: intake,
		tabs:   make(map[target.ID]*TabContext),
	}
}

// Connect dials the browser and attaches to every page target matching the
// configured URL filter. Zero matching tabs is not fatal; traffic capture
// simply stays idle until Attach is called for a new tab.
func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	cdpURL := c.cfg.GetCDPURL()
	slog.Info("connecting to browser", "url", cdpURL)

	c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cdpURL)

	tempCtx, tempCancel := chromedp.NewContext(c.allocCtx)
	defer tempCancel()

	if err := chromedp.Run(tempCtx); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	targets, err := chromedp.Targets(tempCtx)
	if err != nil {
		return fmt.Errorf("failed to enumerate targets: %w", err)
	}

	attachedCount := 0
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if !c.matchesTabURL(t.URL) {
			slog.Debug("skipping tab (url filter)", "url", t.URL)
			continue
		}
		if err := c.Attach(t.TargetID, t.URL); err != nil {
			slog.Error("failed to attach to tab", "target_id", t.TargetID, "url", t.URL, "error", err)
			continue
		}
		attachedCount++
	}

	if attachedCount == 0 {
		slog.Warn("no tabs matched the URL filter", "tab_url_filter", c.cfg.TabURLFilter)
	} else {
		slog.Info("attached to tabs", "count", attachedCount, "tab_url_filter", c.cfg.TabURLFilter)
	}
	return nil
}

// Attach enables the network domain on one page target and starts routing
// its events into the intake.
func (c *Client) Attach(targetID target.ID, url string) error {
	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx, chromedp.WithTargetID(targetID))
	tab := &TabContext{ID: targetID, URL: url, ctx: tabCtx, cancel: tabCancel}

	c.tabsMu.Lock()
	c.tabs[targetID] = tab
	c.tabsMu.Unlock()

	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		tabCancel()
		c.tabsMu.Lock()
		delete(c.tabs, targetID)
		c.tabsMu.Unlock()
		return fmt.Errorf("failed to enable network domain: %w", err)
	}

	slog.Info("attached to tab", "target_id", targetID, "url", truncateURL(url))
	chromedp.ListenTarget(tabCtx, c.handleEvent)
	return nil
}

// handleEvent routes a tab's network events into the intake. The pre-send
// event carries body, method, URL, and the renderer's header view; the
// extra-info event carries the wire headers (cookies live there); response
// or failure finalizes the capture.
func (c *Client) handleEvent(ev interface{}) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		c.intake.OnPreSend(
			string(e.RequestID),
			e.Request.Method,
			e.Request.URL,
			decodePostData(e.Request),
			string(e.Type),
			headerList(e.Request.Headers),
		)
	case *network.EventRequestWillBeSentExtraInfo:
		c.intake.OnHeadersReady(string(e.RequestID), headerList(e.Headers))
	case *network.EventResponseReceived:
		c.intake.OnFinalized(string(e.RequestID))
	case *network.EventLoadingFailed:
		if e.Canceled {
			c.intake.OnAborted(string(e.RequestID))
			return
		}
		// The request went out even though loading failed; keep it.
		c.intake.OnFinalized(string(e.RequestID))
	}
}

// Close detaches from every tab and tears down the allocator.
func (c *Client) Close() error {
	c.tabsMu.Lock()
	for _, tab := range c.tabs {
		tab.cancel()
	}
	c.tabs = make(map[target.ID]*TabContext)
	c.tabsMu.Unlock()

	if c.allocCancel != nil {
		c.allocCancel()
	}

	slog.Info("CDP client closed")
	return nil
}

// GetTabCount reports attached tabs.
func (c *Client) GetTabCount() int {
	c.tabsMu.RLock()
	defer c.tabsMu.RUnlock()
	return len(c.tabs)
}

func (c *Client) matchesTabURL(url string) bool {
	if c.cfg.TabURLFilter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(url), strings.ToLower(c.cfg.TabURLFilter))
}

// decodePostData reassembles the request body from post data entries.
func decodePostData(req *network.Request) string {
	if !req.HasPostData || len(req.PostDataEntries) == 0 {
		return ""
	}
	var decodedParts []byte
	for _, entry := range req.PostDataEntries {
		if entry.Bytes == "" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(entry.Bytes)
		if err != nil {
			decodedParts = append(decodedParts, []byte(entry.Bytes)...)
		} else {
			decodedParts = append(decodedParts, decoded...)
		}
	}
	return string(decodedParts)
}

// headerList converts a CDP header map to an ordered list. CDP delivers
// headers as a map, so intra-event order is not meaningful.
func headerList(headers map[string]any) []types.Header {
	out := make([]types.Header, 0, len(headers))
	for k, v := range headers {
		if s, ok := v.(string); ok {
			out = append(out, types.Header{Name: k, Value: s})
		}
	}
	return out
}

func truncateURL(url string) string {
	if len(url) > 120 {
		return url[:120] + "..."
	}
	return url
}
