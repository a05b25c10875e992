package main

import (
	"fmt"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"

	"github.com/tsawler/isaref/format"
)

func infoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info SOURCE",
		Short: "Show the format and page count of a source",
		Long: `Show the detected format and page count of a source. With --range the
pages holding instruction entries are located as well, which reads every
page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			withRange, _ := cmd.Flags().GetBool("range")

			ex, _, err := newExtractor(cmd, source)
			if err != nil {
				return err
			}
			f, err := detectFormat(cmd, source)
			if err != nil {
				return err
			}
			n, err := ex.PageCount()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "File:   %s\n", source)
			fmt.Fprintf(w, "Format: %s\n", f)
			fmt.Fprintf(w, "Pages:  %d\n", n)

			if withRange {
				rng, warnings, err := ex.Range()
				if err != nil {
					return err
				}
				logWarnings(warnings)
				fmt.Fprintf(w, "Range:  %d-%d (entry signature found: %t, exit signature found: %t)\n",
					rng.FirstPage, rng.LastPage, rng.EntryFound, rng.ExitFound)
			}
			return nil
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().Bool("range", false, "Locate the instruction pages")
	return cmd
}

func trimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trim SOURCE OUTPUT",
		Short: "Write the instruction pages of a PDF to a new PDF",
		Long: `Locate the pages holding instruction entries and write them to OUTPUT.
With --pages the listed pages are written as they are.

Example:
  isaref trim sdm-vol2.pdf relevant_pages.pdf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, output := args[0], args[1]

			f, err := detectFormat(cmd, source)
			if err != nil {
				return err
			}
			if f != format.PDF {
				return fmt.Errorf("trim needs a PDF source, got %s", f)
			}

			var selected []string
			if pageSpec, _ := cmd.Flags().GetString("pages"); pageSpec != "" {
				if _, err := parsePages(pageSpec); err != nil {
					return err
				}
				selected = []string{pageSpec}
			} else {
				ex, _, err := newExtractor(cmd, source)
				if err != nil {
					return err
				}
				rng, warnings, err := ex.Range()
				if err != nil {
					return err
				}
				logWarnings(warnings)
				if rng.LastPage < rng.FirstPage {
					return fmt.Errorf("no instruction pages found in %s", source)
				}
				selected = []string{fmt.Sprintf("%d-%d", rng.FirstPage, rng.LastPage)}
			}

			if err := api.TrimFile(source, output, selected, nil); err != nil {
				return fmt.Errorf("trim %s: %w", source, err)
			}
			slog.Info("wrote pages", "file", output, "pages", selected[0])
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func detectFormat(cmd *cobra.Command, source string) (format.Format, error) {
	if name, _ := cmd.Flags().GetString("format"); name != "" {
		return format.Parse(name)
	}
	f, err := format.DetectFile(source)
	if err != nil {
		return format.Unknown, err
	}
	if f == format.Unknown {
		return format.Unknown, fmt.Errorf("unsupported file format: %s", source)
	}
	return f, nil
}
