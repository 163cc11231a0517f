package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fauxforce/fauxforce/internal/config"
	"github.com/fauxforce/fauxforce/internal/logging"
	"github.com/fauxforce/fauxforce/internal/project"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View refresh logs for a project",
	Long: `View and filter the refresh log for a project.

By default, shows the last 50 entries from the project's refresh log. Use
flags to filter and export the output.

Examples:
  # Show the last 50 entries for the current project
  fauxforce logs

  # Show all warnings and errors
  fauxforce logs --level warn -n 0

  # Show entries from the last hour about custom objects
  fauxforce logs --since 1h --category CUSTOM

  # Export the whole log as CSV for a spreadsheet
  fauxforce logs -n 0 --export refresh.csv --format csv`,
	RunE: runLogs,
}

var (
	logsProject  string
	logsTail     int
	logsLevel    string
	logsSince    string
	logsCategory string
	logsStage    string
	logsGrep     string
	logsExport   string
	logsFormat   string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVarP(&logsProject, "project", "p", "", "Project root (default: nearest ancestor with "+project.MarkerFile+")")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsCategory, "category", "", "Filter by refresh category (STANDARD/CUSTOM/ALL)")
	logsCmd.Flags().StringVar(&logsStage, "stage", "", "Filter by pipeline stage")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries whose message contains this substring")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "Write matching entries to a file instead of stdout")
	logsCmd.Flags().StringVar(&logsFormat, "format", "text", "Export format: json, text, or csv")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	root, err := resolveProjectRoot(logsProject)
	if err != nil {
		return err
	}

	logDir := cfg.Logging.Dir
	if logDir == "" {
		logDir = project.LogDir(root)
	}

	filter := logging.LogFilter{
		Level:           logsLevel,
		Category:        strings.ToLower(logsCategory),
		Stage:           logsStage,
		MessageContains: logsGrep,
	}
	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
		filter.StartTime = time.Now().Add(-duration)
	}

	entries, err := logging.AggregateLogs(logDir)
	if err != nil {
		return err
	}
	entries = logging.FilterLogs(entries, filter)

	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	if logsExport != "" {
		if err := logging.ExportLogEntries(entries, logsExport, logsFormat); err != nil {
			return err
		}
		fmt.Printf("Wrote %d entries to %s\n", len(entries), logsExport)
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No matching log entries found.")
		return nil
	}
	for _, entry := range entries {
		fmt.Println(formatLogEntry(entry))
	}
	return nil
}

var (
	infoLevelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warnLevelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// levelStyle returns the display style for a log level.
func levelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return dimStyle
	case logging.LevelWarn:
		return warnLevelStyle
	case logging.LevelError:
		return errorStyle
	default:
		return infoLevelStyle
	}
}

// formatLogEntry renders one entry for the terminal.
func formatLogEntry(entry logging.LogEntry) string {
	var sb strings.Builder

	sb.WriteString(dimStyle.Render("[" + entry.Timestamp.Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	sb.WriteString(levelStyle(entry.Level).Render("[" + entry.Level + "]"))
	sb.WriteString(" ")
	sb.WriteString(entry.Message)

	for _, kv := range [][2]string{
		{"category", entry.Category},
		{"stage", entry.Stage},
		{"source", entry.Source},
	} {
		if kv[1] != "" {
			sb.WriteString(" ")
			sb.WriteString(dimStyle.Render(kv[0] + "=" + kv[1]))
		}
	}
	for key, value := range entry.Attrs {
		sb.WriteString(" ")
		sb.WriteString(dimStyle.Render(key+"=") + fmt.Sprintf("%v", value))
	}

	return sb.String()
}
