package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fauxforce/fauxforce/internal/config"
	"github.com/fauxforce/fauxforce/internal/describe"
	"github.com/fauxforce/fauxforce/internal/event"
	"github.com/fauxforce/fauxforce/internal/logging"
	"github.com/fauxforce/fauxforce/internal/project"
	"github.com/fauxforce/fauxforce/internal/refresh"
	"github.com/fauxforce/fauxforce/internal/schema"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the project's schema object stubs",
	Long: `Refresh regenerates the project's faux class stubs from the org's schema.

A full refresh lists every object in the org, fetches field metadata for
the selected category, and converges the stub caches under
.sfdx/tools/sobjects. A minimal refresh (--min) skips the org entirely
and writes a small fixed set of common standard objects, which is useful
right after opening a project, before credentials are configured.

Examples:
  # Refresh everything, locating the project from the working directory
  fauxforce refresh

  # Refresh only custom objects for a specific project
  fauxforce refresh --category CUSTOM --project ~/work/my-org-app

  # Write the minimal startup stubs without contacting the org
  fauxforce refresh --min`,
	RunE: runRefresh,
}

var (
	refreshCategory string
	refreshMin      bool
	refreshProject  string
	refreshTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().StringVarP(&refreshCategory, "category", "C", "", "Object category to refresh: STANDARD, CUSTOM, or ALL (default from config)")
	refreshCmd.Flags().BoolVar(&refreshMin, "min", false, "Write the fixed minimal stub set without contacting the org")
	refreshCmd.Flags().StringVarP(&refreshProject, "project", "p", "", "Project root (default: nearest ancestor with "+project.MarkerFile+")")
	refreshCmd.Flags().DurationVar(&refreshTimeout, "timeout", 0, "Abort the refresh after this duration (default from config, 0 disables)")
}

// Summary output styles.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
)

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	root, err := resolveProjectRoot(refreshProject)
	if err != nil {
		return err
	}

	chosen := refreshCategory
	if chosen == "" {
		chosen = cfg.Refresh.Category
	}
	var category schema.Category
	if !refreshMin {
		category, err = schema.ParseCategory(chosen)
		if err != nil {
			return fmt.Errorf("invalid category %q (valid: %s)", chosen, strings.Join(config.ValidCategories(), ", "))
		}
	}

	logger, err := newRunLogger(cfg, root)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	if !refreshMin {
		if cfg.Org.InstanceURL == "" {
			return fmt.Errorf("org.instance_url is not configured; set it in %s or FAUXFORCE_ORG_INSTANCE_URL", config.ConfigFile())
		}
		if cfg.Org.AccessToken == "" {
			return fmt.Errorf("org.access_token is not configured; set FAUXFORCE_ORG_ACCESS_TOKEN")
		}
	}

	client := describe.NewClient(cfg.Org.InstanceURL, cfg.Org.AccessToken, logger,
		describe.WithAPIVersion(cfg.Org.APIVersion),
		describe.WithBatchSize(cfg.Refresh.BatchSize),
	)

	bus := event.NewBus()
	bus.Subscribe(event.TypeInfo, func(e event.Event) {
		fmt.Println(dimStyle.Render(e.(event.InfoEvent).Message))
	})
	bus.Subscribe(event.TypeStderr, func(e event.Event) {
		fmt.Fprintln(os.Stderr, errorStyle.Render(e.(event.StderrEvent).Message))
	})

	refresher, err := refresh.New(refresh.Config{Transport: client, Bus: bus}, refresh.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	timeout := refreshTimeout
	if timeout == 0 {
		timeout = cfg.Refresh.Timeout()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var result schema.Result
	if refreshMin {
		result = refresher.RefreshMinimal(ctx, root, schema.SourceManual)
	} else {
		result = refresher.RefreshFull(ctx, root, category, schema.SourceManual)
	}

	if result.Err != nil {
		// The failure was already reported through the stderr event; the
		// returned error sets the process exit status.
		return result.Err
	}

	printSummary(result.Data)
	return nil
}

// resolveProjectRoot returns the --project override when given, or walks up
// from the working directory to the nearest project root.
func resolveProjectRoot(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return project.FindRoot(cwd)
}

// newRunLogger builds the refresh run logger from config. Logging writes to
// the project's tools directory unless overridden or disabled, and rotates
// by size so long-lived projects don't accumulate an unbounded log.
func newRunLogger(cfg *config.Config, root string) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logDir := cfg.Logging.Dir
	if logDir == "" {
		logDir = project.LogDir(root)
	}
	return logging.NewLoggerWithRotation(logDir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
}

func printSummary(data *schema.ResultData) {
	if data == nil {
		return
	}
	if data.Cancelled {
		fmt.Println(dimStyle.Render("Refresh cancelled; stub caches were left as-is."))
		return
	}

	var parts []string
	if data.StandardObjects != nil {
		parts = append(parts, countStyle.Render(fmt.Sprintf("%d", *data.StandardObjects))+" standard")
	}
	if data.CustomObjects != nil {
		parts = append(parts, countStyle.Render(fmt.Sprintf("%d", *data.CustomObjects))+" custom")
	}
	fmt.Println(successStyle.Render("✓ Refresh complete:") + " " + strings.Join(parts, ", ") + " object stubs")
}
