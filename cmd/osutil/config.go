package main

import (
	"fmt"
	"os"

	"github.com/opensuse-tools/osutil/internal/common/config"
	"github.com/opensuse-tools/osutil/internal/common/logger"
	"github.com/opensuse-tools/osutil/internal/common/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the osutil configuration",
	Long: `Commands for locating and validating the osutil configuration file.

The file lives at $XDG_CONFIG_HOME/osutil/osutil.conf, or
~/.config/osutil/osutil.conf when XDG_CONFIG_HOME is unset, and holds:

  username = <value>
  password = <value>

Optional keys: api_url, repology_url, repository.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.DefaultConfigPath()
		if err != nil {
			logger.Error("resolving config path: %v", err)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkConfig(cmd); err != nil {
			output.PrintError(cmd.ErrOrStderr(), "%v", err)
			os.Exit(1)
		}
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

// checkConfig loads the configuration and prints a summary without the password
func checkConfig(cmd *cobra.Command) error {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	output.PrintSuccess(w, "%s is valid", path)
	fmt.Fprintf(w, "  username:   %s\n", cfg.Username)
	fmt.Fprintf(w, "  api_url:    %s\n", cfg.APIURL)
	fmt.Fprintf(w, "  repology:   %s\n", cfg.RepologyURL)
	fmt.Fprintf(w, "  repository: %s\n", cfg.Repository)
	return nil
}
