package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/philipp01105/logtree/config"
)

var validateConfigPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a configuration file",
	Long: `Parse and validate a configuration file without opening any appender.

Every problem found is listed. The exit code is 2 when the file is invalid.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "configuration file (required)")
	_ = validateCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := readConfig(validateConfigPath)
	if err != nil {
		return err
	}
	cfg, err := config.Parse(data)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", validateConfigPath, err)
		return NewExitCodeError(2)
	}

	if err := config.Validate(cfg); err != nil {
		problems := multierr.Errors(err)
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d problem(s)\n", validateConfigPath, len(problems))
		for _, p := range problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", p)
		}
		return NewExitCodeError(2)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d loggers, %d appenders)\n",
		validateConfigPath, len(cfg.Loggers), len(cfg.Appenders))
	return nil
}
