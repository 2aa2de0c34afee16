package gamepads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	DefaultEndpointPath = "/gamepad_data"
	ConnectPath         = "/connect"
	userAgent           = "go-gamepad-relay"
)

// Ack is the JSON body returned by the server for a payload.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ConnectResponse is the JSON body returned by the connect endpoint.
type ConnectResponse struct {
	Success   bool   `json:"success"`
	ClientID  string `json:"client_id"`
	GamepadID int    `json:"gamepad_id,omitempty"`
	Message   string `json:"message"`
}

// HTTPTransmitter posts payloads as JSON to the server.
type HTTPTransmitter struct {
	serverURL string
	endpoint  string
	client    *http.Client
	logger    *log.Logger
}

func NewHTTPTransmitter(serverURL, endpoint string, timeout time.Duration, logger *log.Logger) *HTTPTransmitter {
	if endpoint == "" {
		endpoint = DefaultEndpointPath
	}
	if logger == nil {
		logger = log.New(os.Stdout, "http: ", log.LstdFlags)
	}
	return &HTTPTransmitter{
		serverURL: strings.TrimRight(serverURL, "/"),
		endpoint:  endpoint,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

func (t *HTTPTransmitter) Send(ctx context.Context, p Payload) error {
	var ack Ack
	if err := t.postJSON(ctx, t.endpoint, p, &ack); err != nil {
		return err
	}
	if ack.Status == "error" {
		return fmt.Errorf("%w: "+ErrServerRejected, ErrTransmit, ack.Message)
	}
	return nil
}

// Register announces the client to the server and returns the assigned
// identity.
func (t *HTTPTransmitter) Register(ctx context.Context) (ConnectResponse, error) {
	req := map[string]string{
		"ip_address": localAddr(t.serverURL),
		"user_agent": userAgent,
	}
	var resp ConnectResponse
	if err := t.postJSON(ctx, ConnectPath, req, &resp); err != nil {
		return resp, err
	}
	if !resp.Success {
		return resp, fmt.Errorf("%w: "+ErrServerRejected, ErrTransmit, resp.Message)
	}
	t.logger.Printf("registered as %s (gamepad %d)", resp.ClientID, resp.GamepadID)
	return resp, nil
}

func (t *HTTPTransmitter) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	target := t.serverURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransmit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: "+ErrUnexpectedStatus, ErrTransmit, resp.StatusCode, target)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrTransmit, err)
	}
	return nil
}

// localAddr returns the local address used to reach the server, or
// "unknown" when it cannot be determined.
func localAddr(serverURL string) string {
	u, err := url.Parse(serverURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	host := u.Host
	if u.Port() == "" {
		port := "80"
		if u.Scheme == "https" || u.Scheme == "wss" {
			port = "443"
		}
		host = net.JoinHostPort(u.Hostname(), port)
	}
	conn, err := net.Dial("udp", host)
	if err != nil {
		return "unknown"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "unknown"
}
