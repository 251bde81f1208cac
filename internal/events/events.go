// Package events subscribes to the assistant's server-sent event stream.
package events

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ariel-frischer/occtl/internal/logger"
)

// Path is the event stream endpoint on the assistant's server.
const Path = "/event"

// Event is one decoded stream payload.
type Event struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties,omitempty"`
}

// Handler receives events in stream order.
type Handler func(Event)

// Client reads the event stream of a local server.
type Client struct {
	// Host defaults to 127.0.0.1.
	Host string
	// HTTPClient defaults to a client without a timeout, since the stream is long-lived.
	HTTPClient *http.Client
	// Handler receives each event; nil discards them.
	Handler Handler
}

// NewClient returns a client that passes events to h.
func NewClient(h Handler) *Client {
	return &Client{Handler: h}
}

// URL returns the stream URL for port.
func (c *Client) URL(port int) string {
	host := c.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d%s", host, port, Path)
}

// Subscribe connects to the stream on port and dispatches events until the
// stream ends (nil), the context is cancelled (ctx.Err()), or reading fails.
func (c *Client) Subscribe(ctx context.Context, port int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(port), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("connecting to event stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("event stream returned %s", resp.Status)
	}
	logger.Debug().Int("port", port).Msg("subscribed to event stream")

	err = c.read(resp)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (c *Client) read(resp *http.Response) error {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var data []string
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		switch {
		case line == "":
			if len(data) > 0 {
				c.dispatch(strings.Join(data, "\n"))
				data = data[:0]
			}
		case strings.HasPrefix(line, ":"):
			// comment or heartbeat
		case line == "data" || strings.HasPrefix(line, "data:"):
			value := strings.TrimPrefix(line, "data")
			value = strings.TrimPrefix(value, ":")
			data = append(data, strings.TrimPrefix(value, " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading event stream: %w", err)
	}
	if len(data) > 0 {
		c.dispatch(strings.Join(data, "\n"))
	}
	return nil
}

func (c *Client) dispatch(payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		logger.Debug().Err(err).Str("payload", payload).Msg("skipping malformed event")
		return
	}
	if c.Handler != nil {
		c.Handler(ev)
	}
}
