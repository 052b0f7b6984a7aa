package app

import (
	"messageu/internal/directory"
	"messageu/internal/relay"
	"messageu/internal/services/identity"
	"messageu/internal/services/message"
	"messageu/internal/services/roster"
	"messageu/internal/store"
)

// App bundles the services and shared state for the CLI.
type App struct {
	Identity *identity.Service
	Roster   *roster.Service
	Messages *message.Service
	Peers    *directory.Directory
	Relay    *relay.Client
}

// New constructs the dependency graph from cfg. The relay address comes
// from cfg.Server when set, otherwise from server.info in cfg.Dir; the
// identity is loaded from me.info when present.
func New(cfg Config) (*App, error) {
	addr := cfg.Server
	if addr == "" {
		var err error
		if addr, err = store.LoadServerInfo(cfg.Dir); err != nil {
			return nil, err
		}
	}

	rc := relay.New(addr)
	dir := directory.New()
	idStore := store.NewIdentityStore(cfg.Dir)

	idSvc := identity.New(idStore, rc, dir)
	if err := idSvc.Load(); err != nil {
		return nil, err
	}

	return &App{
		Identity: idSvc,
		Roster:   roster.New(rc, idSvc, dir),
		Messages: message.New(rc, idSvc, dir),
		Peers:    dir,
		Relay:    rc,
	}, nil
}
