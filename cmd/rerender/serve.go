package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sidd1211/rerender.dev/internal/api"
	"github.com/Sidd1211/rerender.dev/internal/engine"
	"github.com/Sidd1211/rerender.dev/internal/rulepack"
	"github.com/Sidd1211/rerender.dev/internal/security"
	"github.com/Sidd1211/rerender.dev/internal/shared"
	"github.com/Sidd1211/rerender.dev/internal/storage"
)

type serveFlags struct {
	configPath string
	addr       string
	dbPath     string
	rulesPath  string
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Path to YAML config (optional)")
	flags.StringVar(&f.addr, "addr", "", "Listen address (default from config)")
	flags.StringVar(&f.dbPath, "db", "", "SQLite database path (default from config)")
	flags.StringVar(&f.rulesPath, "rules", "", "YAML rule pack appended to the built-in catalog")

	return cmd
}

func runServe(f *serveFlags) error {
	cfg, _ := shared.LoadConfig(f.configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	if f.addr == "" {
		f.addr = cfg.Server.Addr
	}
	if f.dbPath == "" {
		f.dbPath = cfg.Database.DSN
	}
	if f.rulesPath == "" {
		f.rulesPath = cfg.Analysis.RulePack
	}

	eng := engine.Default()
	if f.rulesPath != "" {
		var err error
		eng, err = rulepack.Extend(f.rulesPath)
		if err != nil {
			return exitError(1, "serve: rule pack %s: %v", f.rulesPath, err)
		}
		slog.Info("rule pack loaded", "path", f.rulesPath, "rules", len(eng.Rules()))
	}

	db, err := storage.OpenSQLite(f.dbPath)
	if err != nil {
		return exitError(1, "serve: db open: %v", err)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		return exitError(1, "serve: db schema: %v", err)
	}

	if err := bootstrapAdmin(db); err != nil {
		return exitError(1, "serve: admin bootstrap: %v", err)
	}

	srv := &api.Server{
		Engine:          eng,
		DB:              db,
		UserStore:       db,
		Logger:          logger,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		SessionDuration: time.Duration(cfg.Server.SessionDuration) * time.Minute,
		MaxInputBytes:   cfg.Analysis.MaxInputBytes,
	}

	slog.Info("listening", "addr", f.addr, "db", f.dbPath)
	if err := http.ListenAndServe(f.addr, srv.Routes()); err != nil {
		return exitError(1, "serve: %v", err)
	}
	return nil
}

// bootstrapAdmin seeds the first admin account from RERENDER_ADMIN_PASSWORD
// when the users table is empty.
func bootstrapAdmin(db *storage.DB) error {
	n, err := db.CountUsers()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	pw := os.Getenv("RERENDER_ADMIN_PASSWORD")
	if pw == "" {
		slog.Warn("no users exist and RERENDER_ADMIN_PASSWORD is unset; auth endpoints will reject everyone")
		return nil
	}
	hash, err := security.HashPassword(pw)
	if err != nil {
		return err
	}
	if _, err := db.CreateUser("admin", hash, "admin"); err != nil {
		return err
	}
	slog.Info("admin user created", "username", "admin")
	return nil
}
