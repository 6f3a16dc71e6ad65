package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/NeuronJay/snapmatch/pkg/cache/analysis"
	"github.com/NeuronJay/snapmatch/pkg/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the image analysis cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(configPath)
			c := openCache(cfg)

			st := c.Stats()
			fmt.Printf("Entries:  %d\nHits:     %d\nMisses:   %d\nHit rate: %s\nSize:     %s\n",
				st.TotalEntries, st.Hits, st.Misses, st.HitRate, st.StorageSize)
			return nil
		},
	}

	var query string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(configPath)
			c := openCache(cfg)

			var (
				removed int
				err     error
			)
			if query != "" {
				removed, err = c.ClearByQuery(query)
			} else {
				removed, err = c.ClearAll()
			}
			if err != nil {
				log.WithError(err).Warn("cache not persisted")
			}
			fmt.Printf("Cleared %d cache entries.\n", removed)
			return nil
		},
	}
	clearCmd.Flags().StringVar(&query, "query", "", "only clear entries for this expanded query")

	var days int
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove entries older than a number of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(configPath)
			c := openCache(cfg)

			if !cmd.Flags().Changed("days") {
				days = cfg.Cache.MaxAgeDays
			}
			removed, err := c.ClearOlderThan(days)
			if err != nil {
				log.WithError(err).Warn("cache not persisted")
			}
			fmt.Printf("Removed %d entries older than %d days.\n", removed, days)
			return nil
		},
	}
	cleanCmd.Flags().IntVar(&days, "days", 30, "age threshold in days")

	queriesCmd := &cobra.Command{
		Use:   "queries",
		Short: "List fingerprints of analyzed queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(configPath)
			c := openCache(cfg)

			fps := c.QueryFingerprints()
			if len(fps) == 0 {
				fmt.Println("No queries analyzed.")
				return nil
			}
			for _, fp := range fps {
				fmt.Println(fp)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "snapmatch.yaml", "path to config file")
	cmd.AddCommand(statsCmd, clearCmd, cleanCmd, queriesCmd)
	return cmd
}

// loadConfig falls back to defaults when the config file is absent.
func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Warn("config not loaded, using defaults")
		}
		return config.Default()
	}
	return cfg
}

func openCache(cfg *config.Config) *analysis.Cache {
	c, err := analysis.New(cfg.Cache.AnalysisPath)
	if err != nil {
		log.WithError(err).Warn("cache store recovered as empty")
	}
	return c
}
