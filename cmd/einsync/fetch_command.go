package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"einsync/internal/catalog"
	"einsync/internal/config"
	"einsync/internal/download"
	"einsync/internal/match"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var infoOnly bool
	var languages []string
	var year int

	cmd := &cobra.Command{
		Use:   "fetch <watch-url | query>",
		Short: "Resolve a single title and download it",
		Long: `Fetch resolves one Einthusan watch page to its media links and downloads
the progressive stream. The argument is either a watch page URL or a title
query; queries are searched across the configured language catalogs and the
best-scoring result is fetched. With --info the resolved links are printed
as JSON and nothing is downloaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			client, err := ctx.newCatalogClient()
			if err != nil {
				return err
			}

			arg := strings.TrimSpace(args[0])
			pageURL := arg
			if !strings.HasPrefix(arg, "http://") && !strings.HasPrefix(arg, "https://") {
				partitions := cfg.Sync.Languages
				if len(languages) > 0 {
					partitions, err = normalizeLanguages(languages)
					if err != nil {
						return err
					}
				}
				entry, err := findBestEntry(cmd, client, arg, year, partitions)
				if err != nil {
					return err
				}
				pageURL = entry.PageURL
			}

			bundle, err := client.Resolve(cmd.Context(), pageURL)
			if err != nil {
				return fmt.Errorf("resolve watch page: %w", err)
			}

			if infoOnly {
				return writeJSON(cmd, bundle)
			}

			destDir := cfg.Paths.DownloadDir
			if outputDir != "" {
				destDir, err = config.ExpandPath(outputDir)
				if err != nil {
					return err
				}
			}

			downloader, err := download.New(destDir,
				download.WithLogger(logger),
				download.WithRetries(cfg.Download.Retries),
				download.WithRetryDelay(time.Duration(cfg.Download.RetryDelay)*time.Second),
				download.WithProgress(cfg.Download.Progress && isInteractive(cmd.OutOrStdout())),
			)
			if err != nil {
				return err
			}

			path, err := downloader.Download(cmd.Context(), *bundle)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Destination directory (defaults to paths.download_dir)")
	cmd.Flags().BoolVar(&infoOnly, "info", false, "Print resolved links as JSON instead of downloading")
	cmd.Flags().StringSliceVar(&languages, "lang", nil, "Language catalogs to search for a query (defaults to sync.languages)")
	cmd.Flags().IntVar(&year, "year", 0, "Release year used to rank query results")
	return cmd
}

// findBestEntry searches each partition for the query and keeps the
// highest-scoring result across all of them.
func findBestEntry(cmd *cobra.Command, client *catalog.Client, query string, year int, partitions []string) (*catalog.Entry, error) {
	target := match.Target{Title: query, Year: year}

	var best *match.Candidate
	for _, partition := range partitions {
		entries, err := client.Search(cmd.Context(), query, partition)
		if err != nil {
			return nil, fmt.Errorf("search %s catalog: %w", partition, err)
		}
		candidate := match.Best(target, entries, match.Floor)
		if candidate == nil {
			continue
		}
		if best == nil || candidate.Score > best.Score {
			best = candidate
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no catalog match for %q", query)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Matched %s (%d) [%s] score %.2f\n",
		best.Entry.Title, best.Entry.Year, best.Entry.Partition, best.Score)
	return &best.Entry, nil
}
