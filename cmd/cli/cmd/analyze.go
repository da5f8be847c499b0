package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tdump-analysis/internal/analyzer"
	"github.com/tdump-analysis/internal/formatter"
	"github.com/tdump-analysis/pkg/config"
	"github.com/tdump-analysis/pkg/model"
	"github.com/tdump-analysis/pkg/utils"
	"github.com/tdump-analysis/pkg/writer"
)

var (
	// Analyze command flags
	zipFile    string
	poolName   string
	outputDir  string
	configPath string
	topGroups  int
	noSave     bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze thread dumps for thread-pool saturation",
	Long: `Analyze a zip archive of Java thread dumps and report which stack traces
dominate the requested thread pool.

The archive is expected to contain one textual thread-dump snapshot per
entry (.txt, .log, .dump or .tdump, optionally gzip/zstd compressed).
Snapshots are processed in archive order; unreadable entries are skipped
and counted. A pool with no matching threads produces an empty report,
not an error.

When --zip-file or --pool is omitted, the command prompts for it.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	binName := BinName()
	analyzeCmd.Example = `  # Analyze the Tomcat worker pool
  ` + binName + ` analyze -z threads.zip -p "http-nio-8080-exec"

  # Filter out framework noise and keep the top 10 groups
  ` + binName + ` analyze -z dumps.zip -p "pool-worker" -c filters.yaml -n 10

  # Print only, do not write report files
  ` + binName + ` analyze -z dumps.zip -p "pool-worker" --no-save`

	analyzeCmd.Flags().StringVarP(&zipFile, "zip-file", "z", "", "Path to the zip archive containing thread dumps")
	analyzeCmd.Flags().StringVarP(&poolName, "pool", "p", "", `Thread pool name prefix to analyze (e.g. "http-nio-8080-exec")`)
	analyzeCmd.Flags().StringVarP(&outputDir, "output", "o", "./output", "Output directory for report files")
	analyzeCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the noise-filter config file")
	analyzeCmd.Flags().IntVarP(&topGroups, "top", "n", 0, "Number of top stack groups to report (0 = all)")
	analyzeCmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write report files, only print")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	// Prompt for inputs the way the flags describe them when omitted.
	if zipFile == "" {
		zipFile = prompt("Enter path to zip file: ")
	}
	if poolName == "" {
		poolName = prompt("Enter thread pool name to analyze: ")
	}

	if zipFile == "" {
		return fmt.Errorf("zip file path is required")
	}
	if poolName == "" {
		return fmt.Errorf("thread pool name is required")
	}
	if _, err := os.Stat(zipFile); os.IsNotExist(err) {
		return fmt.Errorf("archive not found: %s", zipFile)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if topGroups > 0 {
		cfg.Analysis.TopGroups = topGroups
	}

	log.Info("=== Thread Dump Analysis ===")
	log.Info("Archive:   %s", zipFile)
	log.Info("Pool:      %s", poolName)
	if len(cfg.Filter.IgnoredPackages) > 0 || cfg.Filter.UseBuiltinIgnores {
		log.Info("Filter:    %d ignored package prefixes", len(cfg.Filter.IgnoredPackages))
	}
	log.Info("")

	ana := analyzer.New(cfg, log)
	report, err := ana.Analyze(cmd.Context(), &analyzer.Request{
		ArchivePath: zipFile,
		PoolPrefix:  poolName,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	f := formatter.NewReportFormatter()
	f.Format(report, log)

	if !noSave {
		if err := saveReport(report, f, log); err != nil {
			log.Warn("Failed to save report files: %v", err)
		}
	}

	return nil
}

// prompt reads one line from stdin after printing the question.
func prompt(question string) string {
	fmt.Fprint(os.Stderr, question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(line)
}

// saveReport writes the full report and a short summary into the output dir.
func saveReport(report *model.SaturationReport, f *formatter.ReportFormatter, log utils.Logger) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reportFile := filepath.Join(outputDir, "report.json")
	if err := writer.NewPrettyJSONWriter[*model.SaturationReport]().WriteToFile(report, reportFile); err != nil {
		return err
	}

	summaryFile := filepath.Join(outputDir, "summary.json")
	if err := writer.NewPrettyJSONWriter[map[string]interface{}]().WriteToFile(f.FormatSummary(report), summaryFile); err != nil {
		return err
	}

	log.Info("Report written to %s", reportFile)
	return nil
}
