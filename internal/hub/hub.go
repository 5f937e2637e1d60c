// Package hub tracks connected widget clients and relays notifications,
// title changes and state snapshots to them.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"timekeeper/internal/logger"
	"timekeeper/internal/models"
)

// Envelope types sent to clients.
const (
	TypeState             = "state"
	TypeClock             = "clock"
	TypeNotification      = "notification"
	TypeTitle             = "title"
	TypePermissionRequest = "permission_request"
	TypeError             = "error"
)

// Message types received from clients.
const (
	MsgFocus      = "focus"
	MsgBlur       = "blur"
	MsgVisibility = "visibility"
	MsgPermission = "permission"
)

const sendBuffer = 32

var ErrUnknownMessage = errors.New("unknown message type")

// Envelope is the wire format for every server-to-client message.
type Envelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// ClientMessage is the wire format for client-to-server messages.
type ClientMessage struct {
	Type   string `json:"type"`
	Hidden *bool  `json:"hidden,omitempty"`
	Value  string `json:"value,omitempty"`
}

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
}

type Title struct {
	Title string `json:"title"`
}

// PermissionStore caches the OS notification permission reported by clients.
type PermissionStore interface {
	Permission() string
	SetNotificationPermission(ctx context.Context, permission string) error
}

type Options struct {
	Permissions PermissionStore
	Title       string
	Log         *logger.Logger
}

// Hub fans envelopes out to clients and doubles as the notification system,
// title sink and visibility signal for the dispatcher.
type Hub struct {
	perms PermissionStore
	log   *logger.Logger

	mu        sync.Mutex
	clients   map[*Client]struct{}
	title     string
	requested bool
	onFocus   func()
}

// Client is one connected widget. Its queue is closed when the hub drops it.
type Client struct {
	send    chan Envelope
	visible bool
}

func New(opts Options) *Hub {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		perms:   opts.Permissions,
		log:     log,
		clients: make(map[*Client]struct{}),
		title:   opts.Title,
	}
}

// OnFocus sets the callback run whenever a client regains focus.
func (h *Hub) OnFocus(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFocus = fn
}

// Messages is the client's outbound queue.
func (c *Client) Messages() <-chan Envelope {
	return c.send
}

// Register adds a client. The first client to connect while permission is
// still undetermined is asked for it; later clients are not. A new client
// starts visible, so it counts as a focus.
func (h *Hub) Register() *Client {
	c := &Client{send: make(chan Envelope, sendBuffer), visible: true}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.title != "" {
		c.send <- Envelope{Type: TypeTitle, Data: Title{Title: h.title}}
	}
	if h.perms != nil && !h.requested && h.perms.Permission() == models.PermissionDefault {
		h.requested = true
		c.send <- Envelope{Type: TypePermissionRequest}
	}
	n := len(h.clients)
	onFocus := h.onFocus
	h.mu.Unlock()

	h.log.Infow("client connected", "clients", n)
	if onFocus != nil {
		onFocus()
	}
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.log.Infow("client disconnected", "clients", n)
	}
}

// Clients reports how many clients are connected.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues env for every client. A client whose queue is full is
// dropped rather than blocking the sender.
func (h *Hub) Broadcast(env Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(env)
}

func (h *Hub) broadcastLocked(env Envelope) {
	for c := range h.clients {
		select {
		case c.send <- env:
		default:
			delete(h.clients, c)
			close(c.send)
			h.log.Warnw("dropping slow client", "type", env.Type)
		}
	}
}

// Show relays a system notification to the clients.
func (h *Hub) Show(title, body, icon string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		h.log.Debugw("no clients to show notification", "title", title)
		return nil
	}
	h.broadcastLocked(Envelope{Type: TypeNotification, Data: Notification{Title: title, Body: body, Icon: icon}})
	return nil
}

// SetTitle publishes the document title and remembers it for late joiners.
func (h *Hub) SetTitle(title string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.title = title
	h.broadcastLocked(Envelope{Type: TypeTitle, Data: Title{Title: title}})
}

// Hidden reports true when no connected client is visible.
func (h *Hub) Hidden() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.visible {
			return false
		}
	}
	return true
}

// Handle applies one raw client message.
func (h *Hub) Handle(ctx context.Context, c *Client, raw []byte) error {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("decode client message: %w", err)
	}

	switch msg.Type {
	case MsgFocus:
		h.setVisible(c, true)
	case MsgBlur:
		h.setVisible(c, false)
	case MsgVisibility:
		if msg.Hidden == nil {
			return fmt.Errorf("visibility message without hidden flag")
		}
		h.setVisible(c, !*msg.Hidden)
	case MsgPermission:
		if h.perms == nil {
			return nil
		}
		if err := h.perms.SetNotificationPermission(ctx, msg.Value); err != nil {
			return err
		}
		h.log.Infow("notification permission updated", "permission", msg.Value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

func (h *Hub) setVisible(c *Client, visible bool) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		c.visible = visible
	}
	onFocus := h.onFocus
	h.mu.Unlock()

	if visible && onFocus != nil {
		onFocus()
	}
}
