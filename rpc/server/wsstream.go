package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/xrplkit/walletconsole/internal/console"
	"github.com/xrplkit/walletconsole/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS already gates the API, the upgrade follows the same policy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamHub fans ledger stream messages out to connected front ends
type streamHub struct {
	mu      sync.Mutex
	conns   map[*websocket.Conn]bool
	started bool
}

var hub = &streamHub{conns: make(map[*websocket.Conn]bool)}

func (h *streamHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
}

func (h *streamHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[conn] {
		delete(h.conns, conn)
		_ = conn.Close()
	}
}

func (h *streamHub) broadcast(blob []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, blob); err != nil {
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

// startLedgerStream subscribes to the default network's ledger and
// server streams once and pumps every message into the hub
func (h *streamHub) start() error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return nil
	}
	h.started = true
	h.mu.Unlock()

	client, err := console.Get().State.Client("")
	if err != nil {
		return err
	}
	remote, err := client.Remote()
	if err != nil {
		return err
	}
	if _, err := remote.Subscribe(true, false, false, true); err != nil {
		return err
	}
	log.Info("subscribed to ledger stream", "network", client.Network().Name)

	go func() {
		for msg := range remote.Incoming {
			blob, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			h.broadcast(blob)
		}
		log.Warn("ledger stream closed")
		h.mu.Lock()
		h.started = false
		h.mu.Unlock()
	}()
	return nil
}

// LedgerStreamHandler upgrades the connection and feeds it the ledger
// stream until the peer goes away
func LedgerStreamHandler(w http.ResponseWriter, r *http.Request) {
	if err := hub.start(); err != nil {
		log.Warn("start ledger stream failed", "err", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}
	hub.add(conn)
	log.Debug("ledger stream client connected", "remote", conn.RemoteAddr())

	// drain control frames, drop the client on read error
	go func() {
		defer hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
