package gamepads

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestHTTPTransmitterSend(t *testing.T) {
	received := make(chan Payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != DefaultEndpointPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type %q", ct)
		}
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
		}
		received <- p
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	tx := NewHTTPTransmitter(srv.URL+"/", "", time.Second, quietLogger())
	want := Payload{Snapshot: testSnapshot(), ClientID: "abc"}
	if err := tx.Send(context.Background(), want); err != nil {
		t.Fatal(err)
	}
	got := <-received
	if got.ClientID != "abc" || !got.Snapshot.Equal(want.Snapshot) {
		t.Errorf("server received %+v", got)
	}
}

func TestHTTPTransmitterFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		},
		"rejected": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"error","message":"No data received"}`))
		},
		"body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()
			tx := NewHTTPTransmitter(srv.URL, DefaultEndpointPath, time.Second, quietLogger())
			err := tx.Send(context.Background(), Payload{Snapshot: testSnapshot()})
			if !errors.Is(err, ErrTransmit) {
				t.Errorf("got %v, want ErrTransmit", err)
			}
		})
	}
}

func TestHTTPTransmitterUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tx := NewHTTPTransmitter(url, "", time.Second, quietLogger())
	if err := tx.Send(context.Background(), Payload{}); !errors.Is(err, ErrTransmit) {
		t.Errorf("got %v, want ErrTransmit", err)
	}
}

func TestHTTPTransmitterRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ConnectPath {
			http.NotFound(w, r)
			return
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["user_agent"] == "" || req["ip_address"] == "" {
			t.Errorf("incomplete connect request %v", req)
		}
		_ = json.NewEncoder(w).Encode(ConnectResponse{
			Success:   true,
			ClientID:  "client_42",
			GamepadID: 1,
			Message:   "Connected successfully",
		})
	}))
	defer srv.Close()

	tx := NewHTTPTransmitter(srv.URL, "", time.Second, quietLogger())
	resp, err := tx.Register(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if resp.ClientID != "client_42" || resp.GamepadID != 1 {
		t.Errorf("unexpected response %+v", resp)
	}
}
