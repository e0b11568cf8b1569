package main

import (
	"fmt"
	"os"

	"github.com/opensuse-tools/osutil/internal/common/logger"
	"github.com/opensuse-tools/osutil/internal/common/output"
	"github.com/opensuse-tools/osutil/internal/common/version"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	logFile bool
)

var rootCmd = &cobra.Command{
	Use:   "osutil",
	Short: "openSUSE maintainer utilities",
	Long: `Personal workflow tools for openSUSE package maintainers.

Credentials for the build service are read from
$XDG_CONFIG_HOME/osutil/osutil.conf (default ~/.config/osutil/osutil.conf):

  username = <value>
  password = <value>`,
	Version:      version.Short(),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Default().SetOutput(cmd.ErrOrStderr())
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		switch {
		case noColor:
			output.NoColor()
		case os.Getenv("CLICOLOR_FORCE") == "1":
			output.ForceColor()
		case !output.IsTerminal():
			output.NoColor()
		}
		if logFile {
			if err := logger.Default().EnableFileLogging(); err != nil {
				logger.Warn("file logging disabled: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&logFile, "log-file", false, "Also write logs to $XDG_STATE_HOME/osutil/logs/osutil.log")
}

func main() {
	defer logger.Default().Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Default().Close()
		os.Exit(1)
	}
}
