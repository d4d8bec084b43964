package ambiclimate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// recordingHandler is a slog.Handler collecting emitted records.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool { return true }

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(name string) slog.Handler       { return h }

func (h *recordingHandler) byMessage(msg string) []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []slog.Record
	for _, r := range h.records {
		if r.Message == msg {
			out = append(out, r)
		}
	}
	return out
}

func attrValue(r slog.Record, key string) (string, bool) {
	var value string
	var found bool
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			value = a.Value.String()
			found = true
			return false
		}
		return true
	})
	return value, found
}

func TestClient_LogsTransportError(t *testing.T) {
	handler := &recordingHandler{}
	client, _ := NewClient("token",
		WithHTTPClient(&http.Client{Transport: &errorTransport{}}),
		WithLogger(slog.New(handler)),
	)

	if res := client.request(context.Background(), "devices", nil, 3, true); res != nil {
		t.Fatalf("result = %+v, want nil", res)
	}

	records := handler.byMessage("error sending command")
	if len(records) != 1 {
		t.Fatalf("got %d error records, want 1", len(records))
	}
	if records[0].Level != slog.LevelError {
		t.Errorf("level = %v, want error", records[0].Level)
	}
	if command, ok := attrValue(records[0], "command"); !ok || command != "devices" {
		t.Errorf("command attr = %q, want %q", command, "devices")
	}
}

func TestClient_LogsInvalidFeedback(t *testing.T) {
	handler := &recordingHandler{}
	client, _ := NewClient("token", WithLogger(slog.New(handler)))
	device := &Device{RoomName: "Bedroom", LocationName: "Home", client: client}

	if _, err := device.SetComfortFeedback(context.Background(), "scorching"); err == nil {
		t.Fatal("expected error")
	}

	if records := handler.byMessage("invalid comfort feedback"); len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestLoggingTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	handler := &recordingHandler{}
	client, err := NewLoggingClient("token", slog.New(handler), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res := client.request(context.Background(), "devices", nil, 0, true); res == nil {
		t.Fatal("result is nil")
	}

	if records := handler.byMessage("api_request"); len(records) != 1 {
		t.Errorf("got %d api_request records, want 1", len(records))
	}
	responses := handler.byMessage("api_response")
	if len(responses) != 1 {
		t.Fatalf("got %d api_response records, want 1", len(responses))
	}
	if status, ok := attrValue(responses[0], "status"); !ok || status != "200" {
		t.Errorf("status attr = %q, want %q", status, "200")
	}
}
