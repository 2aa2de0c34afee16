package gamepads

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MessageGamepadEvent = "gamepad_event"
	MessagePing         = "ping"
	MessagePong         = "pong"
)

// WSMessage is the envelope exchanged over the websocket.
type WSMessage struct {
	Type      string  `json:"type"`
	Data      any     `json:"data,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
	ClientID  string  `json:"client_id,omitempty"`
}

// WSTransmitter sends payloads as messages on a websocket at /ws/<client id>.
// The connection is dialed on first use and again after a failure.
type WSTransmitter struct {
	sync.Mutex
	endpoint     string
	clientID     string
	writeTimeout time.Duration
	pingInterval time.Duration
	dialer       *websocket.Dialer
	logger       *log.Logger
	verbose      bool

	conn   *websocket.Conn
	cancel context.CancelFunc
}

func NewWSTransmitter(serverURL, clientID string, writeTimeout, pingInterval time.Duration, verbose bool, logger *log.Logger) (*WSTransmitter, error) {
	endpoint, err := wsEndpoint(serverURL, clientID)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(os.Stdout, "ws: ", log.LstdFlags)
	}
	return &WSTransmitter{
		endpoint:     endpoint,
		clientID:     clientID,
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
		dialer:       &websocket.Dialer{HandshakeTimeout: writeTimeout},
		logger:       logger,
		verbose:      verbose,
	}, nil
}

// wsEndpoint turns an http(s) server URL into the websocket endpoint URL.
func wsEndpoint(serverURL, clientID string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme '%s'", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/" + url.PathEscape(clientID)
	return u.String(), nil
}

func (t *WSTransmitter) Send(ctx context.Context, p Payload) error {
	t.Lock()
	defer t.Unlock()

	if err := t.connectLocked(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransmit, err)
	}
	msg := WSMessage{
		Type:      MessageGamepadEvent,
		Data:      p,
		Timestamp: p.Timestamp,
		ClientID:  t.clientID,
	}
	if err := t.writeLocked(msg); err != nil {
		t.closeLocked()
		return fmt.Errorf("%w: %w", ErrTransmit, err)
	}
	return nil
}

// Close closes the current connection, if any.
func (t *WSTransmitter) Close() error {
	t.Lock()
	defer t.Unlock()
	t.closeLocked()
	return nil
}

func (t *WSTransmitter) connectLocked(ctx context.Context) error {
	if t.conn != nil {
		return nil
	}
	conn, _, err := t.dialer.DialContext(ctx, t.endpoint, nil)
	if err != nil {
		return err
	}
	t.conn = conn

	// the connection outlives the request context that dialed it
	keepCtx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.readLoop(keepCtx, conn)
	if t.pingInterval > 0 {
		go t.pingLoop(keepCtx, conn)
	}
	t.logger.Printf("connected to %s", t.endpoint)
	return nil
}

func (t *WSTransmitter) writeLocked(msg WSMessage) error {
	if t.writeTimeout > 0 {
		_ = t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	}
	return t.conn.WriteJSON(msg)
}

func (t *WSTransmitter) closeLocked() {
	if t.conn == nil {
		return
	}
	t.cancel()
	_ = t.conn.Close()
	t.conn = nil
}

// readLoop consumes server messages so control frames are processed and a
// dead connection is noticed before the next send.
func (t *WSTransmitter) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				t.logger.Printf("read failed: %v", err)
				t.drop(conn)
			}
			return
		}
		if msg.Type == MessagePong && t.verbose {
			t.logger.Printf("pong at %.3f", msg.Timestamp)
		}
	}
}

func (t *WSTransmitter) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(t.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Lock()
			if t.conn != conn {
				t.Unlock()
				return
			}
			msg := WSMessage{
				Type:      MessagePing,
				Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
				ClientID:  t.clientID,
			}
			if err := t.writeLocked(msg); err != nil {
				t.logger.Printf("ping failed: %v", err)
				t.closeLocked()
			}
			t.Unlock()
		}
	}
}

// drop discards conn if it is still the current connection.
func (t *WSTransmitter) drop(conn *websocket.Conn) {
	t.Lock()
	defer t.Unlock()
	if t.conn == conn {
		t.closeLocked()
	}
}
