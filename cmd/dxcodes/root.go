package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dxcodes/internal/audit"
	"github.com/JonMunkholm/dxcodes/internal/config"
	"github.com/JonMunkholm/dxcodes/internal/core"
	"github.com/JonMunkholm/dxcodes/internal/logging"
	"github.com/JonMunkholm/dxcodes/internal/report"
)

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitWarning = 2
)

// app holds state shared by the subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	auditPath  string
	logLevel   string

	service *core.Service
	store   audit.Store
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	if core.IsUserFacing(err) {
		_ = report.New(stderr).Error(err)
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	if kind, ok := core.KindOf(err); ok && kind.Warning() {
		return exitWarning
	}
	return exitError
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dxcodes",
		Short: "Analyze diagnosis codes in uploaded datasets",
		Long: `dxcodes filters a dataset by diagnosis code range, reports prefix and
exact matches for a single code, and maps ranges to classification chapters.

Datasets are .xlsx, .csv or .txt files. Tabular files need a 'Diagnosis'
column; text files hold one code per line.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultFilePath(), "path to the TOML config file")
	root.PersistentFlags().StringVar(&a.auditPath, "audit", "", "record analyses in this SQLite database")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		a.rangeCmd(),
		a.codeCmd(),
		a.categoriesCmd(),
		a.lookupCmd(),
	)
	return root
}

// setup reads the config file and builds the service.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	slog.SetDefault(logging.New(a.stderr, a.logLevel, "text"))

	fileCfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}

	driver := fileCfg.AuditDriverOr(audit.DriverNone)
	dsn := fileCfg.AuditPathOr(config.DefaultAuditPath())
	if a.auditPath != "" {
		driver, dsn = audit.DriverSQLite, a.auditPath
	}

	store, err := audit.Open(cmd.Context(), driver, dsn)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	a.store = store

	svc, err := core.NewService(core.Options{
		PreviewRows:   fileCfg.PreviewRowsOr(core.DefaultPreviewRows),
		MaxConcurrent: 1,
	}, store)
	if err != nil {
		return err
	}
	a.service = svc
	slog.Debug("dxcodes ready", "config", a.configPath, "audit_driver", driver)
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("close audit store", "error", err)
	}
}
