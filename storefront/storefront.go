// Package storefront wires a Store to the backend service and the on-disk
// session for a client process.
package storefront

import (
	"log/slog"

	"github.com/Cloud-Net-Park/Gravel/backend"
	"github.com/Cloud-Net-Park/Gravel/config"
	"github.com/Cloud-Net-Park/Gravel/session"
	"github.com/Cloud-Net-Park/Gravel/store"
)

// Open builds a Store talking to cfg.BackendURL with cfg.APIKey, keeping the
// signed-in user under cfg.SessionDir. The caller starts and closes it.
func Open(cfg *config.Config, logger *slog.Logger, opts ...store.Option) *store.Store {
	if logger == nil {
		logger = slog.Default()
	}
	client := backend.New(cfg.BackendURL, cfg.APIKey, backend.WithLogger(logger))
	sessions := session.NewDiskStore(cfg.SessionDir)

	base := []store.Option{store.WithLogger(logger)}
	if cfg.PollInterval > 0 {
		base = append(base, store.WithPollInterval(cfg.PollInterval))
	}
	return store.New(client, sessions, append(base, opts...)...)
}
