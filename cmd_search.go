package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skycast/session"
)

var searchCount int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List places matching a name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchCount, "count", "n", session.SuggestCount, "Maximum number of matches")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger := current.cfg, current.logger
	geocoder, _ := sources(cfg, logger, false)

	query := strings.TrimSpace(strings.Join(args, " "))
	matches, err := geocoder.Search(cmd.Context(), query, searchCount)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no places match %q", query)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLACE\tLATITUDE\tLONGITUDE\tTIMEZONE")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%s\n", m.Label(), m.Latitude, m.Longitude, m.Timezone)
	}
	return w.Flush()
}
