package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"einsync/internal/config"
	"einsync/internal/download"
	"einsync/internal/notifications"
	"einsync/internal/radarr"
	"einsync/internal/sync"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var limit int
	var minScore float64
	var languages []string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download Radarr's wanted movies from the Einthusan catalogs",
		Long: `Sync pulls the missing-movie list from Radarr, searches the configured
language catalogs for each title, and downloads the best match when it clears
the acceptance threshold. Radarr is asked to rescan after each download so the
file is imported immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := sync.Options{
				Languages:    cfg.Sync.Languages,
				MinScore:     cfg.Sync.MinScore,
				MaxDownloads: cfg.Sync.MaxDownloads,
				DryRun:       dryRun,
				DownloadDir:  cfg.Paths.DownloadDir,
			}
			if cmd.Flags().Changed("limit") {
				opts.MaxDownloads = limit
			}
			if cmd.Flags().Changed("min-score") {
				opts.MinScore = minScore
			}
			if len(languages) > 0 {
				normalized, err := normalizeLanguages(languages)
				if err != nil {
					return err
				}
				opts.Languages = normalized
			}

			cat, err := ctx.newCatalogClient()
			if err != nil {
				return err
			}
			tracker, err := radarr.New(cfg.Radarr.URL, cfg.Radarr.APIKey,
				radarr.WithTimeout(time.Duration(cfg.Radarr.RequestTimeout)*time.Second),
			)
			if err != nil {
				return err
			}

			var downloader sync.Downloader
			if !dryRun {
				downloader, err = download.New(cfg.Paths.DownloadDir,
					download.WithLogger(logger),
					download.WithRetries(cfg.Download.Retries),
					download.WithRetryDelay(time.Duration(cfg.Download.RetryDelay)*time.Second),
					download.WithProgress(cfg.Download.Progress && isInteractive(cmd.OutOrStdout())),
				)
				if err != nil {
					return err
				}
			}

			syncer, err := sync.New(cat, downloader, tracker, notifications.NewService(cfg), logger, opts)
			if err != nil {
				return err
			}

			report, err := syncer.Run(cmd.Context())
			if report != nil {
				printReport(cmd, report, dryRun)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Search and score without downloading")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many downloads (0 = unlimited)")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Override the acceptance threshold")
	cmd.Flags().StringSliceVar(&languages, "lang", nil, "Restrict the language catalogs to search")
	return cmd
}

func normalizeLanguages(languages []string) ([]string, error) {
	normalized := make([]string, 0, len(languages))
	for _, lang := range languages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}
		if !config.KnownPartition(lang) {
			return nil, fmt.Errorf("unknown language %q (known: %s)", lang, strings.Join(config.Partitions, ", "))
		}
		normalized = append(normalized, lang)
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("no usable languages given")
	}
	return normalized, nil
}

func printReport(cmd *cobra.Command, report *sync.Report, dryRun bool) {
	out := cmd.OutOrStdout()

	if len(report.Items) > 0 {
		headers := []string{"Title", "Year", "Language", "Score", "Outcome"}
		rows := make([][]string, 0, len(report.Items))
		for _, item := range report.Items {
			score := ""
			if item.Score > 0 {
				score = strconv.FormatFloat(item.Score, 'f', 2, 64)
			}
			rows = append(rows, []string{
				item.Movie.Title,
				strconv.Itoa(item.Movie.Year),
				item.Language,
				score,
				string(item.Outcome),
			})
		}
		fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft}))
	}

	if dryRun {
		fmt.Fprintf(out, "Dry run: %d of %d wanted movies would be downloaded (%s)\n",
			report.Matched(), report.Wanted, report.Elapsed.Round(time.Second))
		return
	}
	fmt.Fprintf(out, "Downloaded %d, skipped %d, failed %d of %d wanted movies (%s)\n",
		report.Downloaded(), report.Skipped(), report.Failed(), report.Wanted, report.Elapsed.Round(time.Second))
}
