package observer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/cyberio/render"
	"github.com/lixenwraith/cyberio/status"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

type stubBuilding struct {
	pos   tile.Pos
	state string
}

func (s *stubBuilding) Pos() tile.Pos { return s.pos }
func (s *stubBuilding) Team() tile.Team { return tile.TeamCrux }
func (s *stubBuilding) BlockName() string { return "stub" }
func (s *stubBuilding) UpdateTile() {}
func (s *stubBuilding) Draw(render.Canvas) {}
func (s *stubBuilding) AniState() string { return s.state }

func TestBuildFrame(t *testing.T) {
	w := world.New()
	if err := w.Place(&stubBuilding{pos: tile.Pack(3, 7), state: "spinning"}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	w.Update()
	w.Status().Ints.Get(status.StreamLinks).Store(2)

	f := BuildFrame(w)
	if f.Tick != 1 || f.ProtocolVersion != ProtocolVersion {
		t.Errorf("Expected tick 1 v%d, got tick %d v%d", ProtocolVersion, f.Tick, f.ProtocolVersion)
	}
	if len(f.Buildings) != 1 {
		t.Fatalf("Expected 1 building, got %d", len(f.Buildings))
	}
	b := f.Buildings[0]
	if b.X != 3 || b.Y != 7 || b.State != "spinning" || b.Team != tile.TeamCrux.String() {
		t.Errorf("Unexpected building frame %+v", b)
	}
	if f.Metrics[status.StreamLinks] != 2 || f.Metrics[status.WorldTicks] != 1 {
		t.Errorf("Unexpected metrics %v", f.Metrics)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for condition")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsFrames(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Mux())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.Subscribers() == 1 })

	if err := hub.Publish(Frame{Type: "TICK", ProtocolVersion: ProtocolVersion, Tick: 42}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	var got Frame
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Tick != 42 {
		t.Errorf("Expected tick 42, got %d", got.Tick)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.Subscribers() == 0 })
}

func TestLateSubscriberGetsLastFrame(t *testing.T) {
	hub := NewHub(nil)
	if err := hub.Publish(Frame{Tick: 5}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	id, ch := hub.subscribe()
	defer hub.unsubscribe(id)

	select {
	case b := <-ch:
		var f Frame
		if err := json.Unmarshal(b, &f); err != nil || f.Tick != 5 {
			t.Errorf("Expected tick 5, got %s (%v)", b, err)
		}
	default:
		t.Fatal("Expected last frame queued on subscribe")
	}
}

func TestSlowSubscriberDropsFrames(t *testing.T) {
	hub := NewHub(nil)
	id, _ := hub.subscribe()
	defer hub.unsubscribe(id)

	for i := range sendBuffer + 3 {
		if err := hub.Publish(Frame{Tick: uint64(i)}); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}
	if got := hub.Dropped(); got != 3 {
		t.Errorf("Expected 3 dropped frames, got %d", got)
	}
}

func TestStateHandler(t *testing.T) {
	hub := NewHub(nil)
	h := hub.StateHandler()

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 before any frame, got %d", rec.Code)
	}

	if err := hub.Publish(Frame{Tick: 9}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var f Frame
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil || f.Tick != 9 {
		t.Errorf("Expected tick 9, got %s (%v)", rec.Body.String(), err)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/state", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST, got %d", rec.Code)
	}
}

func TestWSHandlerRejectsRemote(t *testing.T) {
	hub := NewHub(nil)
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	rec := httptest.NewRecorder()
	hub.WSHandler()(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rec.Code)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:1234", true},
		{"[::1]:80", true},
		{"10.0.0.1:80", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := isLoopbackRemote(tt.addr); got != tt.want {
			t.Errorf("isLoopbackRemote(%q) = %v, expected %v", tt.addr, got, tt.want)
		}
	}
}
