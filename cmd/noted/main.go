package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/alerts"
	"github.com/sandeepkv93/noted/internal/storage"
	"github.com/sandeepkv93/noted/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "noted failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := update.LoadOrCreateConfigFile(configPath(), update.DefaultRuntimeConfig())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = update.RuntimeConfigFromEnv(cfg)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	engine := alerts.NewEngine(cfg.AlertBuffer)
	engine.Start()
	defer engine.Stop()

	program := tea.NewProgram(
		update.NewModelWithRuntime(repo, engine, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func configPath() string {
	if v := strings.TrimSpace(os.Getenv("NOTED_CONFIG")); v != "" {
		return v
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "noted.toml"
	}
	return filepath.Join(base, "noted", "config.toml")
}
