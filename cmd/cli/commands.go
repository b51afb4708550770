package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"coordash/app"
	"coordash/domain/report"
	"coordash/internal/container"
	"coordash/internal/errors"

	"github.com/spf13/cobra"
)

func newViewsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List the report views and their sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), opts, func(c *container.Container) error {
				defs := c.Service.Views()
				if opts.asJSON {
					type entry struct {
						Name   string           `json:"name"`
						Title  string           `json:"title"`
						Path   string           `json:"path"`
						Mode   app.SelectorMode `json:"mode"`
						Source string           `json:"source"`
					}
					out := make([]entry, 0, len(defs))
					for _, def := range defs {
						out = append(out, entry{def.Name, def.Title, def.Path, def.Mode, def.SourceURL})
					}
					return writeJSON(cmd.OutOrStdout(), out)
				}

				rows := make([][]string, 0, len(defs))
				for _, def := range defs {
					source := def.SourceURL
					if source == "" {
						source = "(not configured)"
					}
					rows = append(rows, []string{def.Name, def.Title, def.Path, string(def.Mode), source})
				}
				printTable(cmd.OutOrStdout(), []string{"View", "Title", "Path", "Mode", "Source"}, rows)
				return nil
			})
		},
	}
}

func newFetchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [view]",
		Short: "Fetch one view, or every view when none is given",
		Long: `Fetch downloads the sheet behind a view and reports how it went.

Without a view name every view is fetched concurrently.

Example: coordash fetch juicios`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), opts, func(c *container.Container) error {
				names := make([]string, 0, len(c.Service.Views()))
				var fetchErr error
				if len(args) == 1 {
					if _, err := c.Service.Refresh(cmd.Context(), args[0], ""); err != nil {
						return err
					}
					names = append(names, args[0])
				} else {
					fetchErr = c.Service.RefreshAll(cmd.Context())
					for _, def := range c.Service.Views() {
						names = append(names, def.Name)
					}
				}

				rows := make([][]string, 0, len(names))
				for _, name := range names {
					result, err := c.Service.Query(cmd.Context(), name, "")
					if err != nil {
						return err
					}
					loaded := ""
					if result.LoadedAt != nil {
						loaded = result.LoadedAt.Format("2006-01-02 15:04:05")
					}
					rows = append(rows, []string{name, string(result.Phase), strconv.Itoa(result.TotalRows), loaded, result.Error})
					if result.Phase == report.PhaseError && fetchErr == nil {
						fetchErr = errors.New(result.ErrorCode, fmt.Sprintf("%s: %s", name, result.Error))
					}
				}

				if opts.asJSON {
					if err := writeJSON(cmd.OutOrStdout(), rows); err != nil {
						return err
					}
				} else {
					printTable(cmd.OutOrStdout(), []string{"View", "Phase", "Rows", "Loaded", "Error"}, rows)
				}
				return fetchErr
			})
		},
	}
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <view> <selector>",
		Short: "Show the rows a selector picks in a view",
		Long: `Query applies a selector to a view exactly as the dashboard does:
an email for solicitudes, a free-text search for juicios.

Example: coordash query solicitudes instructor@sena.edu.co`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), opts, func(c *container.Container) error {
				result, err := c.Service.Query(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if result.Phase == report.PhaseError {
					return errors.New(result.ErrorCode, result.Error)
				}
				if opts.asJSON {
					return writeJSON(cmd.OutOrStdout(), result)
				}

				headers := make([]string, 0, len(result.Columns))
				for _, col := range result.Columns {
					headers = append(headers, col.Title)
				}
				rows := make([][]string, 0, len(result.Rows))
				for _, cells := range result.Rows {
					row := make([]string, 0, len(cells))
					for _, cell := range cells {
						row = append(row, cell.Text)
					}
					rows = append(rows, row)
				}
				printTable(cmd.OutOrStdout(), headers, rows)
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows\n", result.Count, result.TotalRows)
				return nil
			})
		},
	}
}

func newOptionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options <view>",
		Short: "List the distinct selector values of a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), opts, func(c *container.Container) error {
				result, err := c.Service.Query(cmd.Context(), args[0], "")
				if err != nil {
					return err
				}
				if result.Phase == report.PhaseError {
					return errors.New(result.ErrorCode, result.Error)
				}
				if opts.asJSON {
					return writeJSON(cmd.OutOrStdout(), result.Options)
				}
				for _, option := range result.Options {
					fmt.Fprintln(cmd.OutOrStdout(), option)
				}
				return nil
			})
		},
	}
}

func newNormalizeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <header>...",
		Short: "Show the canonical key of spreadsheet headers",
		Long: `Normalize prints the key each header is matched by: lowercased,
without diacritics and with whitespace collapsed.

Example: coordash normalize "Número de ficha" "  Correo   del Instructor"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, header := range args {
				rows = append(rows, []string{strconv.Quote(header), report.NormalizeHeader(header)})
			}
			if opts.asJSON {
				keys := make(map[string]string, len(args))
				for _, header := range args {
					keys[header] = report.NormalizeHeader(header)
				}
				return writeJSON(cmd.OutOrStdout(), keys)
			}
			printTable(cmd.OutOrStdout(), []string{"Header", "Key"}, rows)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
