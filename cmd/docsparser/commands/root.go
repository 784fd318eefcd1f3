package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"docsparser/internal/parser"
	"docsparser/internal/report"
	"docsparser/lib/serviceutil"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	clearCache bool
	output     string
	config     string
	verbose    bool
}

var flags rootFlags

func init() {
	rootCmd.Flags().BoolVarP(&flags.clearCache, "clear-cache", "c", false, "Clear the http cache before running.")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "", "How to output the results: pretty, file or markdown. Prints rows to stdout by default.")
	rootCmd.Flags().StringVar(&flags.config, "config", "", "Path to a config file, defaults to $XDG_CONFIG_HOME/docsparser/config.json5.")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug messages.")
}

var rootCmd = &cobra.Command{
	Use:       "docsparser <mode>",
	Short:     "docsparser scrapes the python documentation and the PEP index.",
	Long:      fmt.Sprintf("docsparser scrapes the python documentation and the PEP index.\n\nModes: %s", strings.Join(parser.ModeNames, ", ")),
	ValidArgs: parser.ModeNames,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := report.ParseMode(flags.output)
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := run(cmd.Context(), args[0], flags, cmd.OutOrStdout())
		if err != nil {
			serviceutil.Fatal("parser failed", err)
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
