package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"crisisgrid.org/internal/stream"
)

func TestWarningStream(t *testing.T) {
	env := newTestAPI(t)
	_, adminPair := env.register(t, "admin@example.com", "admin")
	zone := createZone(t, env, adminPair.AccessToken, "River basin")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, env.client.baseURL+"/v1/warnings/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := env.client.client.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type: %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)

	// The opening comment confirms the subscription is registered before
	// we trigger any events.
	if !scanner.Scan() {
		t.Fatalf("stream closed early: %v", scanner.Err())
	}
	if !strings.HasPrefix(scanner.Text(), ":") {
		t.Fatalf("expected opening comment, got %q", scanner.Text())
	}

	wrn := createWarning(t, env, adminPair.AccessToken, zone.ID)

	var data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	if data == "" {
		t.Fatalf("no event received: %v", scanner.Err())
	}

	var evt stream.Event
	if err := json.Unmarshal([]byte(data), &evt); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if evt.Type != stream.EventWarningCreated || evt.WarningID != wrn.ID {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if evt.Warning == nil || evt.Warning.Title != "Flood warning" {
		t.Fatalf("event missing warning payload: %+v", evt)
	}
}
