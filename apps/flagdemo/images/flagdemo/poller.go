package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/imroc/req/v3"

	"github.com/flagops/demo-infra-definitions/flagconfig"
)

// Poller periodically fetches the flag document from the local AppConfig
// agent and keeps the last successfully parsed value. Fetch failures never
// clobber a good snapshot.
type Poller struct {
	client   *req.Client
	url      string
	interval time.Duration

	mu        sync.RWMutex
	current   flagconfig.Document
	fetchedAt time.Time
	lastErr   error
}

func NewPoller(agentURL, application, environment, profile string, interval time.Duration) *Poller {
	client := req.C().
		SetBaseURL(agentURL).
		SetTimeout(5 * time.Second)

	return &Poller{
		client:   client,
		url:      fmt.Sprintf("/applications/%s/environments/%s/configurations/%s", application, environment, profile),
		interval: interval,
		current:  flagconfig.Default(),
	}
}

// Run polls until the context is cancelled. The first fetch happens
// immediately so the app does not serve defaults for a full interval.
func (p *Poller) Run(ctx context.Context) error {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		p.recordError(fmt.Errorf("fetching configuration: %w", err))
		return
	}
	if resp.StatusCode == http.StatusNotModified {
		return
	}
	if resp.IsErrorState() {
		p.recordError(fmt.Errorf("agent returned status %d", resp.StatusCode))
		return
	}

	doc, err := flagconfig.Parse(resp.Bytes())
	if err != nil {
		p.recordError(fmt.Errorf("parsing configuration: %w", err))
		return
	}

	merged, err := flagconfig.Merge(p.Current(), doc)
	if err != nil {
		p.recordError(fmt.Errorf("merging configuration: %w", err))
		return
	}

	p.apply(merged)
}

func (p *Poller) apply(doc flagconfig.Document) {
	p.mu.Lock()
	prev := p.current
	p.current = doc
	p.fetchedAt = time.Now()
	p.lastErr = nil
	p.mu.Unlock()

	if prev.FeatureXEnabled != doc.FeatureXEnabled {
		slog.Info("featureXEnabled changed", "from", prev.FeatureXEnabled, "to", doc.FeatureXEnabled)
	}
	if prev.DebugMode != doc.DebugMode {
		slog.Info("debugMode changed", "from", prev.DebugMode, "to", doc.DebugMode)
	}
	if prev.MaxUsers != doc.MaxUsers {
		slog.Info("maxUsers changed", "from", prev.MaxUsers, "to", doc.MaxUsers)
	}
}

func (p *Poller) recordError(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
	slog.Warn("configuration poll failed, keeping last known value", "error", err)
}

// Current returns the latest good flag document.
func (p *Poller) Current() flagconfig.Document {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Status reports when the document was last refreshed and the last poll error.
func (p *Poller) Status() (fetchedAt time.Time, lastErr error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetchedAt, p.lastErr
}
