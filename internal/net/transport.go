// Package net carries the whiteboard synchronization stream between replicas
// on a local network: a websocket hub run by the host, clients that join it,
// and mDNS discovery of running sessions.
package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"LocalBoard/internal/state"
)

// MessageType tells what a Message carries.
type MessageType string

const (
	// MessageRecord carries one synchronization record.
	MessageRecord MessageType = "record"
	// MessageSnapshot carries every record known to the host, in order.
	MessageSnapshot MessageType = "snapshot"
)

// Message is the unit exchanged on a websocket connection.
type Message struct {
	Type    MessageType    `json:"type"`
	Record  *state.Record  `json:"record,omitempty"`
	Records []state.Record `json:"records,omitempty"`
}

// RecordMessage wraps r for sending.
func RecordMessage(r state.Record) Message {
	return Message{Type: MessageRecord, Record: &r}
}

const (
	writeWait   = 10 * time.Second
	sendBacklog = 64
)

// ErrClosed is returned by Client.Run when the connection was closed on
// purpose.
var ErrClosed = errors.New("connection closed")

// peer is one connected client. Writes go through send so that a single
// goroutine owns the connection writer.
type peer struct {
	conn *websocket.Conn
	send chan Message
	addr string
}

// Hub is run by the host. It relays every record it receives to every other
// peer and greets joining peers with a snapshot.
type Hub struct {
	upgrader websocket.Upgrader
	peers    map[*peer]struct{}
	mu       sync.RWMutex

	snapshot func() []state.Record
	onRecord func(state.Record)
	log      *slog.Logger
}

// NewHub creates a hub. snapshot is called for every joining peer; onRecord
// receives every record sent by a peer. Either may be nil.
func NewHub(snapshot func() []state.Record, onRecord func(state.Record), log *slog.Logger) *Hub {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers:    make(map[*peer]struct{}),
		snapshot: snapshot,
		onRecord: onRecord,
		log:      log,
	}
}

// ServeHTTP upgrades the request and serves the peer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("[HUB] upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	p := &peer{conn: conn, send: make(chan Message, sendBacklog), addr: conn.RemoteAddr().String()}

	var records []state.Record
	if h.snapshot != nil {
		records = h.snapshot()
	}
	p.send <- Message{Type: MessageSnapshot, Records: records}
	h.add(p)

	go h.writeLoop(p)
	h.readLoop(p)
}

func (h *Hub) add(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = struct{}{}
	h.log.Info("[HUB] peer connected", "remote", p.addr)
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; !ok {
		return
	}
	delete(h.peers, p)
	close(p.send)
	h.log.Info("[HUB] peer disconnected", "remote", p.addr)
}

func (h *Hub) readLoop(p *peer) {
	defer func() {
		h.remove(p)
		p.conn.Close()
	}()
	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("[HUB] read failed", "remote", p.addr, "err", err)
			}
			return
		}
		if msg.Type != MessageRecord || msg.Record == nil {
			h.log.Warn("[HUB] ignoring message", "remote", p.addr, "type", msg.Type)
			continue
		}
		if h.onRecord != nil {
			h.onRecord(*msg.Record)
		}
		h.relay(msg, p)
	}
}

func (h *Hub) writeLoop(p *peer) {
	for msg := range p.send {
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteJSON(msg); err != nil {
			h.log.Debug("[HUB] write failed", "remote", p.addr, "err", err)
			p.conn.Close()
			for range p.send {
			}
			return
		}
	}
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// relay queues msg for every peer except the sender. Peers that cannot keep
// up lose the message rather than stall the hub.
func (h *Hub) relay(msg Message, from *peer) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for p := range h.peers {
		if p == from {
			continue
		}
		select {
		case p.send <- msg:
		default:
			h.log.Warn("[HUB] dropping message for slow peer", "remote", p.addr)
		}
	}
}

// Broadcast sends a record produced by the host to every peer.
func (h *Hub) Broadcast(r state.Record) {
	h.relay(RecordMessage(r), nil)
}

// Count returns the number of connected peers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()
	for _, p := range peers {
		h.remove(p)
	}
}

// ListenAndServe serves the hub on addr under /ws until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: writeWait}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	h.log.Info("[HUB] listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("serving hub on %s: %w", addr, err)
	case <-ctx.Done():
	}
	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Client is a joined replica's connection to the hub.
type Client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
	log  *slog.Logger
}

// Dial connects to the hub at url, a ws:// address.
func Dial(ctx context.Context, url string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	log.Info("[CLIENT] connected", "url", url, "local", conn.LocalAddr().String())
	return &Client{conn: conn, log: log}, nil
}

// LocalAddr returns the local address of the connection.
func (c *Client) LocalAddr() string {
	return c.conn.LocalAddr().String()
}

// Send writes a record to the hub.
func (c *Client) Send(r state.Record) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(RecordMessage(r)); err != nil {
		return fmt.Errorf("sending record %s: %w", r.ID, err)
	}
	return nil
}

// Run reads messages until the connection drops or ctx is done. handle runs
// on the reading goroutine.
func (c *Client) Run(ctx context.Context, handle func(Message)) error {
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return ErrClosed
			}
			return fmt.Errorf("reading from hub: %w", err)
		}
		c.log.Debug("[CLIENT] message received", "type", msg.Type, "records", len(msg.Records))
		handle(msg)
	}
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.wmu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.wmu.Unlock()
	return c.conn.Close()
}
