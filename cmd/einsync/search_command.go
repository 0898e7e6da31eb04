package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"einsync/internal/catalog"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var languages []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the language catalogs for a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			partitions := cfg.Sync.Languages
			if len(languages) > 0 {
				partitions, err = normalizeLanguages(languages)
				if err != nil {
					return err
				}
			}

			client, err := ctx.newCatalogClient()
			if err != nil {
				return err
			}

			query := strings.TrimSpace(args[0])
			var entries []catalog.Entry
			for _, partition := range partitions {
				found, err := client.Search(cmd.Context(), query, partition)
				if err != nil {
					return fmt.Errorf("search %s catalog: %w", partition, err)
				}
				entries = append(entries, found...)
			}

			if asJSON {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No results for %q\n", query)
				return nil
			}

			headers := []string{"Title", "Year", "Language", "Page"}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				year := ""
				if entry.Year > 0 {
					year = strconv.Itoa(entry.Year)
				}
				rows = append(rows, []string{entry.Title, year, entry.Partition, entry.PageURL})
			}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&languages, "lang", nil, "Restrict the language catalogs to search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	return cmd
}
