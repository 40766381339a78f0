package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipp01105/logtree/config"
	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/logger"
)

var treeConfigPath string

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the logger hierarchy of a configuration",
	Long: `Print the loggers a configuration defines as a tree.

Each line shows the logger's effective level, marked with * when it is
inherited, the appenders attached to it and whether it is additive.
Appenders are listed by name and not opened.`,
	RunE: runTree,
}

func init() {
	treeCmd.Flags().StringVarP(&treeConfigPath, "config", "c", "", "configuration file (required)")
	_ = treeCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(treeConfigPath)
	if err != nil {
		return err
	}

	reg, attached := outline(cfg)
	children := map[*logger.Logger][]*logger.Logger{}
	for _, l := range reg.CurrentLoggers() {
		children[l.Parent()] = append(children[l.Parent()], l)
	}

	w := cmd.OutOrStdout()
	if cfg.Threshold != "" {
		fmt.Fprintf(w, "threshold: %s\n", core.ToLevel(cfg.Threshold, core.AllLevel))
	}
	printNode(w, reg.Root(), attached, children, "", "")
	return nil
}

// outline builds a registry carrying the levels and additivity of cfg.
// Appenders stay names, keyed by logger name. Entries Apply would skip
// are skipped here too.
func outline(cfg *config.Config) (*logger.Registry, map[string][]string) {
	reg := logger.NewRegistry()
	if l, ok := core.ParseLevel(cfg.Root.Level); ok && l != logger.InheritLevel {
		reg.Root().SetLevel(l)
	}
	attached := map[string][]string{logger.RootName: cfg.Root.Appenders}
	for _, lc := range cfg.Loggers {
		name := strings.TrimSpace(lc.Name)
		if name == "" || name == logger.RootName {
			continue
		}
		l := reg.Logger(name)
		if l == nil {
			continue
		}
		if lvl, ok := core.ParseLevel(lc.Level); ok && lc.Level != "" {
			l.SetLevel(lvl)
		}
		if lc.Additivity != nil {
			l.SetAdditivity(*lc.Additivity)
		}
		attached[name] = lc.Appenders
	}
	return reg, attached
}

func printNode(w io.Writer, l *logger.Logger, attached map[string][]string, children map[*logger.Logger][]*logger.Logger, first, rest string) {
	level := l.EffectiveLevel().String()
	if l.Level() == logger.InheritLevel {
		level += "*"
	}
	line := fmt.Sprintf("%s%s [%s]", first, l.Name(), level)
	if apps := attached[l.Name()]; len(apps) > 0 {
		line += " appenders=" + strings.Join(apps, ",")
	}
	if !l.Additivity() {
		line += " additivity=false"
	}
	fmt.Fprintln(w, line)

	kids := children[l]
	for i, c := range kids {
		if i == len(kids)-1 {
			printNode(w, c, attached, children, rest+"└── ", rest+"    ")
		} else {
			printNode(w, c, attached, children, rest+"├── ", rest+"│   ")
		}
	}
}
