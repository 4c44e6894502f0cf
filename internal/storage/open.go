package storage

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
)

// Storage backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown storage backend")

// Gateway is a calendar.Gateway that may hold resources
type Gateway interface {
	calendar.Gateway
	Close() error
}

// Open returns the gateway for backend at path
func Open(backend, path string, log *zap.SugaredLogger) (Gateway, error) {
	switch backend {
	case BackendJSON, "":
		return nopCloser{NewFileGateway(path, log)}, nil
	case BackendSQLite:
		return OpenSQLite(path, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

type nopCloser struct {
	*FileGateway
}

func (nopCloser) Close() error { return nil }
