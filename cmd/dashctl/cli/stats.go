package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"eventadmin/internal/docstore"
	"eventadmin/internal/domain/admindashboard"
	"eventadmin/internal/env"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var (
	statsDriver      string
	statsConcurrency int
	statsTimeout     time.Duration
	statsJSON        bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the dashboard metrics",
	Long: `Compute the five dashboard metrics from the configured document store
and print them the way the dashboard shows them.

Example:
  dashctl stats --driver mongo --concurrency 8`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsDriver, "driver", "", "document store driver (memory, mongo, postgres, firestore); defaults to DOCSTORE_DRIVER")
	statsCmd.Flags().IntVar(&statsConcurrency, "concurrency", 0, "max parallel order fetches; defaults to STATS_CONCURRENCY")
	statsCmd.Flags().DurationVar(&statsTimeout, "timeout", time.Minute, "give up after this long")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print raw values as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), statsTimeout)
	defer cancel()

	store, closeStore, err := openStore(ctx, storeConfig(statsDriver))
	if err != nil {
		return err
	}
	defer closeStore()

	concurrency := statsConcurrency
	if concurrency <= 0 {
		concurrency = env.GetInt("STATS_CONCURRENCY", 1)
	}

	stats, err := computeStats(ctx, store, concurrency)
	if err != nil {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	f := admindashboard.NewFormatter(env.GetString("CURRENCY_SYMBOL", admindashboard.DefaultCurrencySymbol), language.English)
	return printStats(cmd.OutOrStdout(), stats, f)
}

func computeStats(ctx context.Context, store docstore.Store, concurrency int) (admindashboard.Stats, error) {
	agg := admindashboard.NewAggregator(store, admindashboard.WithConcurrency(concurrency))
	return agg.Stats(ctx)
}

// printStats renders the metrics as the dashboard cards show them.
func printStats(out io.Writer, s admindashboard.Stats, f *admindashboard.Formatter) error {
	view := admindashboard.NewView("", f)
	if err := view.Load(context.Background(), staticStats(s)); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, c := range view.Cards {
		fmt.Fprintf(w, "%s\t%s\n", c.Title, c.Value)
	}
	return w.Flush()
}

type staticStats admindashboard.Stats

func (s staticStats) Stats(context.Context) (admindashboard.Stats, error) {
	return admindashboard.Stats(s), nil
}
