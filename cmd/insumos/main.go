package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mmynk/insumos/internal/config"
	"github.com/mmynk/insumos/internal/console"
	"github.com/mmynk/insumos/internal/menu"
	"github.com/mmynk/insumos/internal/metrics"
	"github.com/mmynk/insumos/internal/service"
	"github.com/mmynk/insumos/internal/storage/jsonfile"
	"github.com/mmynk/insumos/internal/storage/sqlite"
	"github.com/mmynk/insumos/pkg/logging"
)

var (
	configPath string
	filePath   string
	dbPath     string

	rootCmd = &cobra.Command{
		Use:           "insumos",
		Short:         "Manage an inventory of consumable supplies",
		Long:          "insumos keeps a list of consumable supplies in a JSON file and a SQLite database,\nrecords their usage and reports it per month.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMenu,
	}

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Print the monthly report of every usage stored in the database",
		Args:  cobra.NoArgs,
		RunE:  runReport,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "", "path to the inventory JSON file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (overrides config)")
	rootCmd.AddCommand(reportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("Command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Erro:", err)
		stop()
		os.Exit(1)
	}
}

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg     config.Config
	store   *sqlite.SQLiteStore
	metrics *metrics.Recorder
}

// setup loads configuration, configures logging and opens the database.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if filePath != "" {
		cfg.File.Path = filePath
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Setup(os.Stderr, cfg.Log.Level)
	slog.Debug("Configuration loaded", "config", configPath, "file", cfg.File.Path, "database", cfg.Database.Path, "usage_mode", cfg.Usage.Mode)

	store, err := sqlite.NewContext(cmd.Context(), cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Erro ao conectar ao banco de dados: %v\n", err)
		return nil, err
	}
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	return &app{cfg: cfg, store: store, metrics: metrics.New()}, nil
}

// close flushes metrics and releases the database.
func (a *app) close() {
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			slog.Warn("Failed to write metrics textfile", "path", path, "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}

func runMenu(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	inventory := service.NewInventoryService(a.store, jsonfile.New(a.cfg.File.Path), a.metrics)
	usage := service.NewUsageService(a.store, a.metrics)

	c := console.New(cmd.InOrStdin(), cmd.OutOrStdout())
	ctrl := menu.New(c, inventory, usage, menu.Options{
		UsageMode: a.cfg.Usage.Mode,
		Plain:     !stdoutIsTerminal(),
	})

	if err := ctrl.Start(cmd.Context()); err != nil {
		return err
	}
	return ctrl.Run(cmd.Context())
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := service.NewUsageService(a.store, a.metrics).History(cmd.Context())
	if err != nil {
		return err
	}
	menu.RenderReport(cmd.OutOrStdout(), report, !stdoutIsTerminal())
	return nil
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
