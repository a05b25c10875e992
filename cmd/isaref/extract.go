package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/isaref"
	"github.com/tsawler/isaref/export"
	"github.com/tsawler/isaref/layout"
	"github.com/tsawler/isaref/profile"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract SOURCE",
		Short: "Extract instruction records",
		Long: `Extract one record per instruction variant.

The output format follows the --out extension: .csv, .db/.sqlite or .pdf.
Without --out the records are written to stdout as CSV.

Example:
  isaref extract sdm-vol2.pdf --pages 120-600 --out instructions.csv
  isaref extract sdm-vol2.xml --out instructions.db --lenient`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			out, _ := cmd.Flags().GetString("out")
			showKeys, _ := cmd.Flags().GetBool("keys")

			ex, _, err := newExtractor(cmd, source)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := ex.Run()
			if err != nil {
				return err
			}
			logWarnings(res.Warnings)
			slog.Info("extracted",
				"entries", len(res.Entries),
				"records", len(res.Records),
				"pages", fmt.Sprintf("%d-%d", res.Range.FirstPage, res.Range.LastPage),
				"elapsed", time.Since(start).Round(time.Millisecond))

			if showKeys {
				printUnrecognizedKeys(cmd.ErrOrStderr(), res)
			}

			if out == "" {
				return export.WriteCSV(cmd.OutOrStdout(), res.Records)
			}
			if err := res.Report(source).Export(out); err != nil {
				return err
			}
			slog.Info("wrote records", "file", out)
			return nil
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output file (.csv, .db, .sqlite, .pdf)")
	cmd.Flags().Bool("keys", false, "List variant table keys no record field recognized")
	return cmd
}

func printUnrecognizedKeys(w io.Writer, res *isaref.Result) {
	keys := res.UnrecognizedKeys()
	if len(keys) == 0 {
		fmt.Fprintln(w, "No unrecognized keys.")
		return
	}
	fmt.Fprintf(w, "Unrecognized keys (%d):\n", len(keys))
	for _, k := range keys {
		fmt.Fprintf(w, "  %q in %s\n", k.Key, strings.Join(k.Entries, ", "))
	}
}

func tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables SOURCE",
		Short: "Print the reconstructed tables of every entry as Markdown",
		Long: `Print the raw variant and operand encoding tables of every entry.
Keys are shown before normalization, which makes this the place to check a
layout profile against a new printing of the manual.

Example:
  isaref tables sdm-vol2.pdf --pages 129-131`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, _, err := newExtractor(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := ex.Run()
			if err != nil {
				return err
			}
			logWarnings(res.Warnings)

			w := cmd.OutOrStdout()
			for _, s := range res.Sections {
				fmt.Fprintf(w, "## %s\n\n", s.Entry.Name)
				fmt.Fprintln(w, s.VariantTable.ToMarkdown())
				if s.Entry.EncodingTable != nil {
					fmt.Fprintln(w, "### Instruction Operand Encoding")
					fmt.Fprintln(w)
					fmt.Fprintln(w, s.Entry.EncodingTable.ToMarkdown())
				}
				for _, msg := range s.Warnings {
					fmt.Fprintf(w, "> warning: %s\n\n", msg)
				}
			}
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func fontsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts SOURCE",
		Short: "List the fonts of a document and the roles the profile gives them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, p, err := newExtractor(cmd, args[0])
			if err != nil {
				return err
			}
			doc, warnings, err := ex.Document()
			if err != nil {
				return err
			}
			logWarnings(warnings)

			comp, err := p.Compile()
			if err != nil {
				return err
			}
			fc := layout.ClassifyFonts(doc.Fonts(), comp.Fonts)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-50s %8s  %s\n", "FONT", "ELEMENTS", "ROLE")
			for _, f := range doc.Fonts() {
				fmt.Fprintf(w, "%-50s %8d  %s\n", f, doc.FontCount(f), fontRole(fc, f))
			}
			if !fc.Complete() {
				slog.Warn("profile heading fonts not found", "profile", profileName(p))
			}
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func fontRole(fc layout.FontClassification, font string) string {
	var roles []string
	for _, r := range []struct {
		name  string
		fonts []string
	}{
		{"page-heading", fc.PageHeading},
		{"section-heading", fc.SectionHeading},
		{"table-header", fc.TableHeader},
		{"table-body", fc.TableBody},
	} {
		for _, f := range r.fonts {
			if f == font {
				roles = append(roles, r.name)
				break
			}
		}
	}
	if len(roles) == 0 {
		return "-"
	}
	return strings.Join(roles, ",")
}

func profileName(p *profile.Profile) string {
	if p.Name == "" {
		return "unnamed"
	}
	return p.Name
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [FILE]",
		Short: "Print a layout profile as YAML",
		Long: `Print the embedded default layout profile, or FILE overlaid on it.
The output is a starting point for a profile of another printing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := profile.Default()
			if len(args) > 0 {
				var err error
				p, err = profile.Load(args[0])
				if err != nil {
					return err
				}
			}
			data, err := p.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
