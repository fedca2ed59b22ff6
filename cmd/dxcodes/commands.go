package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dxcodes/internal/core"
	"github.com/JonMunkholm/dxcodes/internal/report"
)

func (a *app) rangeCmd() *cobra.Command {
	var (
		start, end, out string
		asJSON          bool
	)
	cmd := &cobra.Command{
		Use:   "range FILE",
		Short: "Filter rows whose diagnosis falls in a code range",
		Long: `Counts the rows whose Diagnosis lies between --start and --end
(inclusive), names the chapter containing the range and previews the first
matching rows. --out writes every matching row to a CSV file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(args[0], core.AnalysisRequest{
				Start: start,
				End:   end,
			})
			if err != nil {
				return err
			}
			res, export, err := a.service.AnalyzeRange(cmd.Context(), req)
			if err != nil {
				return err
			}

			if out != "" {
				if err := a.writeExport(export, out); err != nil {
					return err
				}
			}
			return a.print(res, asJSON)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first code of the range")
	cmd.Flags().StringVar(&end, "end", "", "last code of the range")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write matching rows to this CSV file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the result as JSON")
	return cmd
}

func (a *app) codeCmd() *cobra.Command {
	var (
		code   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "code FILE",
		Short: "Count prefix and exact matches of one diagnosis code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(args[0], core.AnalysisRequest{
				Mode: core.ModeCode,
				Code: code,
			})
			if err != nil {
				return err
			}
			res, err := a.service.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.print(res, asJSON)
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "diagnosis code or prefix")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the result as JSON")
	return cmd
}

func (a *app) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the classification chapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report.New(a.stdout).Categories(core.Categories())
		},
	}
}

func (a *app) lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup START END",
		Short: "Find the chapter that contains a code range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.service.LookupCategory(args[0], args[1])
			if err != nil {
				return err
			}
			return report.New(a.stdout).Lookup(args[0], args[1], c)
		},
	}
}

// readRequest attaches the file at path to req.
func readRequest(path string, req core.AnalysisRequest) (core.AnalysisRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read dataset: %w", err)
	}
	req.FileName = filepath.Base(path)
	req.Data = data
	return req, nil
}

func (a *app) print(res *core.AnalysisResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return report.New(a.stdout).Result(res)
}

// writeExport writes every filtered row of a range analysis to path. An
// empty result still gets the header row.
func (a *app) writeExport(export *core.Export, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := export.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(a.stderr, "Wrote %d rows to %s\n", len(export.Records), path)
	return nil
}
