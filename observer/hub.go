// Package observer streams world frames to websocket subscribers
package observer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 8
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

// Hub fans published frames out to connected observers
// A subscriber whose buffer is full misses frames instead of stalling the loop
type Hub struct {
	log      *log.Logger
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[uint64]chan []byte
	last []byte

	nextID  atomic.Uint64
	dropped atomic.Uint64
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		log:  logger,
		subs: make(map[uint64]chan []byte),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // loopback only
		},
	}
}

// Publish encodes f once and queues it for every subscriber
func (h *Hub) Publish(f Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = b
	for _, ch := range h.subs {
		select {
		case ch <- b:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Subscribers returns the number of connected observers
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns the number of frames skipped for slow observers
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Hub) subscribe() (uint64, chan []byte) {
	id := h.nextID.Add(1)
	ch := make(chan []byte, sendBuffer)
	h.mu.Lock()
	if h.last != nil {
		ch <- h.last
	}
	h.subs[id] = ch
	h.mu.Unlock()
	return id, ch
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// StateHandler serves the latest frame as plain JSON
func (h *Hub) StateHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.mu.Lock()
		last := h.last
		h.mu.Unlock()
		if last == nil {
			http.Error(rw, "no frame yet", http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write(last)
	}
}

// WSHandler upgrades to a websocket and streams frames until either side closes
func (h *Hub) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out := h.subscribe()
		defer h.unsubscribe(id)
		h.log.Printf("observer %d connected from %s", id, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Observers only listen; reads detect the close
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		h.log.Printf("observer %d disconnected", id)
	}
}

// Mux routes /ws and /state
func (h *Hub) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.WSHandler())
	mux.HandleFunc("/state", h.StateHandler())
	return mux
}

// Serve listens on addr until ctx is cancelled
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	h.log.Printf("observer listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
