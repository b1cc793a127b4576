package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/neha-pm/npc-learn/pkg/wire"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSnapshotSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/snapshot" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id":1,"zone":"BUFFET"},{"id":2,"x":30,"y":12}]`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, time.Second, testLogger())
	rows := api.Snapshot(context.Background())

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != 1 || rows[0].Zone != "BUFFET" {
		t.Errorf("unexpected row %+v", rows[0])
	}
	if !rows[1].HasCoords() {
		t.Error("expected explicit coordinates on row 2")
	}
}

func TestSnapshotDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not":"a list"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			api := NewAPI(server.URL, time.Second, testLogger())
			if rows := api.Snapshot(context.Background()); len(rows) != 0 {
				t.Errorf("expected empty roster, got %+v", rows)
			}
		})
	}
}

func TestSnapshotNetworkFailure(t *testing.T) {
	api := NewAPI("http://127.0.0.1:1", 200*time.Millisecond, testLogger())
	if rows := api.Snapshot(context.Background()); len(rows) != 0 {
		t.Errorf("expected empty roster on network failure, got %+v", rows)
	}
}

func TestSavePosition(t *testing.T) {
	var got wire.PositionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/position" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad position body: %v", err)
		}
	}))
	defer server.Close()

	api := NewAPI(server.URL, time.Second, testLogger())
	api.SavePosition(context.Background(), 3, 44.5, 9)

	if got.ID != 3 || got.X != 44.5 || got.Y != 9 {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestSavePositionFailureIsSilent(t *testing.T) {
	api := NewAPI("http://127.0.0.1:1", 200*time.Millisecond, testLogger())
	// Must not panic or surface anything.
	api.SavePosition(context.Background(), 3, 1, 1)
}

func TestRecall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "7" {
			t.Errorf("unexpected id %q", r.URL.Query().Get("id"))
		}
		_ = json.NewEncoder(w).Encode(wire.RecallResponse{Memories: []string{"met Dwight", "danced"}})
	}))
	defer server.Close()

	api := NewAPI(server.URL, time.Second, testLogger())
	memories, err := api.Recall(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(memories) != 2 || memories[0] != "met Dwight" {
		t.Errorf("unexpected memories %v", memories)
	}
}

func TestRecallErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(wire.ErrorResponse{Error: "unknown npc"})
	}))
	defer server.Close()

	api := NewAPI(server.URL, time.Second, testLogger())
	if _, err := api.Recall(context.Background(), 99); err == nil {
		t.Fatal("expected an error")
	}
}

func TestReset(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodPost || r.URL.Path != "/v1/reset" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	api := NewAPI(server.URL, time.Second, testLogger())
	if err := api.Reset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("reset endpoint was not called")
	}
}

func TestResetFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	api := NewAPI(server.URL, time.Second, testLogger())
	if err := api.Reset(context.Background()); err == nil {
		t.Fatal("expected reset to report failure so the client does not clear locally")
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	api := NewAPI(server.URL, time.Second, testLogger())
	if err := api.Health(context.Background()); err != nil {
		t.Errorf("unexpected health error: %v", err)
	}
}
