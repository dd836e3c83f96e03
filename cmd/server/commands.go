package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/patientedu/internal/config"
	"github.com/phrazzld/patientedu/internal/platform/logger"
	"github.com/phrazzld/patientedu/internal/platform/postgres"
	"github.com/phrazzld/patientedu/internal/service/auth"
)

// errNoDatabase is returned by commands that need the revision journal.
var errNoDatabase = errors.New("database.url is not configured")

// initializeApp loads configuration and sets up logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("database_configured", cfg.Database.URL != ""))
	return cfg, log, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the catalog and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}

			app, err := newApplication(ctx, cfg, log, appOptions{withJournal: true})
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			app.startLoad(ctx)
			return app.startHTTPServer(ctx, app.setupRouter())
		},
	}
}

func newExportCmd() *cobra.Command {
	var sectionID, diseaseID, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one disease page as a Word document",
		Long: `Load the catalog from the content origin and write the disease page as a
.docx file.

Examples:
  server export --section cardiology --disease heart-failure
  server export --section cardiology --disease heart-failure --out /tmp/hf.docx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}
			app, err := newApplication(cmd.Context(), cfg, log, appOptions{})
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.cleanup()

			path, err := runExport(cmd.Context(), app, sectionID, diseaseID, out)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVar(&sectionID, "section", "", "section id (required)")
	cmd.Flags().StringVar(&diseaseID, "disease", "", "disease id (required)")
	cmd.Flags().StringVar(&out, "out", "", "output file or directory (default: the disease name in the working directory)")
	_ = cmd.MarkFlagRequired("section")
	_ = cmd.MarkFlagRequired("disease")
	return cmd
}

// runExport loads the catalog and writes one disease document, returning
// the path written.
func runExport(ctx context.Context, app *application, sectionID, diseaseID, out string) (string, error) {
	if err := app.catalogService.Load(ctx); err != nil {
		return "", fmt.Errorf("failed to load catalog: %w", err)
	}

	artifact, err := app.exportService.Export(ctx, sectionID, diseaseID)
	if err != nil {
		return "", fmt.Errorf("failed to export %s/%s: %w", sectionID, diseaseID, err)
	}

	path := out
	switch {
	case path == "":
		path = artifact.Filename
	case isDir(path):
		path = filepath.Join(path, artifact.Filename)
	}
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|reset|status|version]",
		Short: "Run revision journal migrations",
		Args:  cobra.MaximumNArgs(1),
		ValidArgs: []string{
			postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateReset,
			postgres.MigrateStatus, postgres.MigrateVersion,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errNoDatabase
			}

			db, err := postgres.Open(cmd.Context(), cfg.Database.URL, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(cmd.Context(), db, command, log)
		},
	}
}

func newJournalCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recently journaled catalog revisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errNoDatabase
			}

			db, err := postgres.Open(cmd.Context(), cfg.Database.URL, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			entries, err := postgres.NewJournalStore(db, log).Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list journal: %w", err)
			}
			return writeJournal(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show")
	return cmd
}

func writeJournal(w io.Writer, entries []postgres.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CREATED\tSESSION\tREVISION\tTYPE\tPAYLOAD")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			e.CreatedAt.UTC().Format(time.RFC3339), e.SessionID.String()[:8], e.Revision, e.EventType, e.Payload)
	}
	return tw.Flush()
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash to use as admin.password_hash",
		Long: `Print the bcrypt hash of a password. Without an argument the password is
read from the first line of standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func readPassword(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}
