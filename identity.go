package gamepads

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// Registrar announces a client to the server.
type Registrar interface {
	Register(ctx context.Context) (ConnectResponse, error)
}

// ResolveClientID returns configured when set, else the id assigned by the
// registrar, else a random UUID. r may be nil.
func ResolveClientID(ctx context.Context, configured string, r Registrar, logger *log.Logger) string {
	if configured != "" {
		return configured
	}
	if r != nil {
		resp, err := r.Register(ctx)
		if err == nil && resp.ClientID != "" {
			return resp.ClientID
		}
		if err != nil && logger != nil {
			logger.Printf("registration failed, using a generated id: %v", err)
		}
	}
	return uuid.NewString()
}
