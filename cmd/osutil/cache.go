package main

import (
	"fmt"
	"os"

	"github.com/opensuse-tools/osutil/internal/common/config"
	"github.com/opensuse-tools/osutil/internal/common/output"
	"github.com/opensuse-tools/osutil/internal/repology"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the repology response cache",
	Long: `Repology lookups are cached for one hour in
$XDG_CACHE_HOME/osutil/repology.json (default ~/.cache/osutil).
Expired entries are dropped each time outdated runs.`,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cache, err := loadCache()
		if err != nil {
			output.PrintError(cmd.ErrOrStderr(), "%v", err)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Path())
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached repology response",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := clearCache(cmd); err != nil {
			output.PrintError(cmd.ErrOrStderr(), "%v", err)
			os.Exit(1)
		}
	},
}

func init() {
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func loadCache() (*repology.Cache, error) {
	dir, err := config.CacheDir()
	if err != nil {
		return nil, err
	}
	return repology.NewCache(dir)
}

func clearCache(cmd *cobra.Command) error {
	cache, err := loadCache()
	if err != nil {
		return err
	}

	n := cache.Len()
	if err := cache.Clear(); err != nil {
		return fmt.Errorf("clearing %s: %w", cache.Path(), err)
	}
	output.PrintSuccess(cmd.OutOrStdout(), "Removed %d cached project(s) from %s", n, cache.Path())
	return nil
}
