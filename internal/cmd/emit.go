package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/logger"
)

var (
	emitConfigPath string
	emitLogger     string
	emitLevel      string
	emitFields     []string
	emitError      string
)

var emitCmd = &cobra.Command{
	Use:   "emit [flags] message...",
	Short: "Log one event through a configuration",
	Long: `Apply a configuration to a fresh registry, log one event and shut the
registry down, so every appender flushes.

Useful to check where events of a given logger and level end up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().StringVarP(&emitConfigPath, "config", "c", "", "configuration file (required)")
	emitCmd.Flags().StringVarP(&emitLogger, "logger", "l", "", "logger name (default root)")
	emitCmd.Flags().StringVar(&emitLevel, "level", "info", "event level")
	emitCmd.Flags().StringArrayVarP(&emitFields, "field", "f", nil, "key=value field, repeatable")
	emitCmd.Flags().StringVar(&emitError, "error", "", "attach an error with this message")
	_ = emitCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	level, ok := core.ParseLevel(emitLevel)
	if !ok || level.IsSentinel() {
		return fmt.Errorf("invalid level %q", emitLevel)
	}
	fields := make([]core.Field, 0, len(emitFields))
	for _, kv := range emitFields {
		k, v, found := strings.Cut(kv, "=")
		if !found || k == "" {
			return fmt.Errorf("invalid field %q, want key=value", kv)
		}
		fields = append(fields, logger.String(k, v))
	}
	var cause error
	if emitError != "" {
		cause = fmt.Errorf("%s", emitError)
	}

	reg, err := configuredRegistry(emitConfigPath)
	if err != nil {
		return err
	}
	l := reg.Logger(emitLogger)
	if !l.IsEnabledFor(level) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s is disabled for logger %s (effective level %s, threshold %s)\n",
			level, l.Name(), l.EffectiveLevel(), reg.Threshold())
	}
	l.Log(level, strings.Join(args, " "), cause, fields...)

	if err := reg.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
