package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/formatter"
	"github.com/philipp01105/logtree/store"
)

var (
	queryDir      string
	queryLogger   string
	queryLevel    string
	queryContains string
	querySince    time.Duration
	queryLimit    int
	queryReverse  bool
	queryJSON     bool
	queryPrune    time.Duration
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Read events recorded by a store appender",
	Long: `Print events from an event store directory, oldest first.

Filters combine: --logger keeps a logger and its descendants, --level drops
events below a level, --contains matches the message, --since keeps recent
events. --prune deletes events older than the given age before reading.`,
	RunE: runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringVarP(&queryDir, "store", "s", "", "event store directory (required)")
	f.StringVarP(&queryLogger, "logger", "l", "", "logger subtree")
	f.StringVar(&queryLevel, "level", "", "minimum level")
	f.StringVar(&queryContains, "contains", "", "message substring")
	f.DurationVar(&querySince, "since", 0, "only events newer than this age")
	f.IntVarP(&queryLimit, "limit", "n", 0, "maximum number of events")
	f.BoolVarP(&queryReverse, "reverse", "r", false, "newest first")
	f.BoolVar(&queryJSON, "json", false, "print JSON lines")
	f.DurationVar(&queryPrune, "prune", 0, "delete events older than this age first")
	_ = queryCmd.MarkFlagRequired("store")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	q := store.Query{
		Logger:   queryLogger,
		Contains: queryContains,
		Limit:    queryLimit,
		Reverse:  queryReverse,
	}
	if queryLevel != "" {
		l, ok := core.ParseLevel(queryLevel)
		if !ok {
			return fmt.Errorf("invalid level %q", queryLevel)
		}
		q.MinLevel = l
	}
	now := time.Now()
	if querySince > 0 {
		q.From = now.Add(-querySince)
	}

	s, err := store.Open(store.Options{Dir: queryDir})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if queryPrune > 0 {
		if err := s.Prune(now.Add(-queryPrune)); err != nil {
			return fmt.Errorf("prune: %w", err)
		}
	}

	var f formatter.Formatter = formatter.NewTextFormatter(formatter.Config{IncludeCaller: true})
	if queryJSON {
		f = formatter.NewJSONFormatter(formatter.Config{IncludeCaller: true})
	}
	w := cmd.OutOrStdout()
	return s.Scan(context.Background(), q, func(r store.Record) error {
		line, err := f.Format(r.Event())
		if err != nil {
			return err
		}
		_, err = w.Write(line)
		return err
	})
}
