package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// EventType discriminates backend event payloads.
type EventType string

const (
	EventInstallProgress EventType = "install-progress"
	EventInstallComplete EventType = "install-complete"
	EventModpackProgress EventType = "modpack-progress"
)

// Event is one message from the backend's event stream, keyed by the
// instance it concerns.
type Event struct {
	Type       EventType `json:"type"`
	InstanceID string    `json:"instanceId"`
	Progress   float64   `json:"progress,omitempty"`
	Success    *bool     `json:"success,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Subscription is a live handle on the backend event stream. Callers must
// Close it when the owning view goes away; Events is closed when the stream
// ends for any reason.
type Subscription struct {
	Events <-chan Event

	cancel context.CancelFunc
	done   chan struct{}
}

// Close tears the subscription down and waits for the reader to exit.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Subscribe opens the backend's NDJSON event stream. The subscription stays
// live until Close is called, ctx is cancelled, or the backend ends the
// stream. Undecodable lines are skipped rather than terminating the stream.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := c.newRequest(ctx, http.MethodGet, "/events", nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, c.wrapConnErr(fmt.Errorf("failed to open event stream: %w", err))
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		cancel()
		return nil, decodeAPIError(resp)
	}

	events := make(chan Event, 64)
	done := make(chan struct{})
	sub := &Subscription{Events: events, cancel: cancel, done: done}

	go func() {
		defer close(done)
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 4096), maxErrorBody)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var ev Event
			if err := json.Unmarshal(line, &ev); err != nil {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}
