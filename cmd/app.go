package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/agentdeck/internal/config"
	"github.com/guilhermegouw/agentdeck/internal/db"
	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/export"
	"github.com/guilhermegouw/agentdeck/internal/group"
	"github.com/guilhermegouw/agentdeck/internal/message"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
	"github.com/guilhermegouw/agentdeck/internal/session"
)

// app holds the services every command works against.
type app struct {
	cfg      *config.Config
	db       *db.DB
	hub      *pubsub.Hub
	sessions *session.Service
	groups   *group.Service
	messages *message.Service
	exporter *export.Service
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("getting config flag: %w", err)
	}
	if path != "" {
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	hub := pubsub.NewHub()
	sessions := session.NewService(session.NewSQLiteStore(database.Conn()), hub.Session)
	groups := group.NewService(group.NewSQLiteStore(database.Conn()), hub.Group)
	messages := message.NewService(message.NewSQLiteStore(database.Conn()), sessions)
	exporter := export.NewService(sessions, messages, cfg.ExportDir(),
		export.WithBroker(hub.Export),
		export.WithCopyPath(cfg.Options.CopyExportPath),
	)

	return &app{
		cfg:      cfg,
		db:       database,
		hub:      hub,
		sessions: sessions,
		groups:   groups,
		messages: messages,
		exporter: exporter,
	}, nil
}

func (a *app) Close() {
	if debug.IsEnabled() {
		debug.Log("%s", a.hub.DebugString())
	}
	a.hub.Shutdown()
	_ = a.db.Close() //nolint:errcheck // nothing left to do on close failure
}
