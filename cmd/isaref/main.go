// Command isaref extracts instruction records from the Intel 64 and IA-32
// instruction set reference.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/isaref"
	"github.com/tsawler/isaref/docai"
	"github.com/tsawler/isaref/format"
	"github.com/tsawler/isaref/profile"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "isaref",
		Short: "Instruction set reference table extractor",
		Long: `isaref rebuilds the instruction tables of the Intel 64 and IA-32
instruction set reference from the positioned text of its pages.

Sources:
  - PDF files (text read locally, or sent to a Document AI processor)
  - XML written by "pdftohtml -xml"
  - Document AI JSON output
  - Page scans (OCR builds only)

Records are written as CSV, SQLite or a PDF report.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(verbose)
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(tablesCmd())
	rootCmd.AddCommand(fontsCmd())
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(trimCmd())
	rootCmd.AddCommand(profileCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// addSourceFlags registers the flags every command reading a source shares.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "Source format: pdf, pdfxml, docai, image (default: detect)")
	cmd.Flags().String("pages", "", `Pages to read, e.g. "120-180,200"`)
	cmd.Flags().String("profile", "", "Layout profile YAML (default: embedded 2023 profile)")
	cmd.Flags().String("docai-config", "", "Process PDF input with the Document AI processor in this YAML file")
	cmd.Flags().Bool("lenient", false, "Skip entries whose tables cannot be reconstructed")
}

// newExtractor builds an extractor for source from the source flags.
func newExtractor(cmd *cobra.Command, source string) (*isaref.Extractor, *profile.Profile, error) {
	formatName, _ := cmd.Flags().GetString("format")
	pageSpec, _ := cmd.Flags().GetString("pages")
	profilePath, _ := cmd.Flags().GetString("profile")
	docaiPath, _ := cmd.Flags().GetString("docai-config")
	lenient, _ := cmd.Flags().GetBool("lenient")

	ex := isaref.Open(source).Context(cmd.Context()).Logger(slog.Default())

	if formatName != "" {
		f, err := format.Parse(formatName)
		if err != nil {
			return nil, nil, err
		}
		ex = ex.Format(f)
	}

	if pageSpec != "" {
		pages, err := parsePages(pageSpec)
		if err != nil {
			return nil, nil, err
		}
		ex = ex.Pages(pages...)
	}

	p := profile.Default()
	if profilePath != "" {
		var err error
		p, err = profile.Load(profilePath)
		if err != nil {
			return nil, nil, err
		}
	}
	ex = ex.Profile(p)

	if docaiPath != "" {
		cfg, err := docai.LoadConfig(docaiPath)
		if err != nil {
			return nil, nil, err
		}
		ex = ex.DocumentAI(cfg)
	}

	if lenient {
		ex = ex.Lenient()
	}
	return ex, p, nil
}

// parsePages parses a comma separated list of pages and inclusive ranges.
func parsePages(spec string) ([]int, error) {
	var pages []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("invalid page range %q", part)
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages in %q", spec)
	}
	return pages, nil
}

// logWarnings logs every warning at debug level and a per-code summary.
func logWarnings(warnings []isaref.Warning) {
	if len(warnings) == 0 {
		return
	}
	for _, w := range warnings {
		slog.Debug("warning", "code", w.Code, "entry", w.Entry, "page", w.Page, "message", w.Message)
	}

	counts := isaref.CountWarnings(warnings)
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, string(c))
	}
	sort.Strings(codes)
	for _, c := range codes {
		slog.Warn("warnings", "code", c, "count", counts[isaref.WarningCode(c)])
	}
}
