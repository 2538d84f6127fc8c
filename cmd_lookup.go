package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skycast/conditions"
	"skycast/models"
	"skycast/session"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <place>",
	Short: "Show current weather and the forecast for a place",
	Example: `  skycast lookup London
  skycast lookup "São Paulo" --locale es --icons emoji`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, logger := current.cfg, current.logger
	geocoder, forecasts := sources(cfg, logger, false)

	s := session.New(geocoder, forecasts, cfg.ViewOptions(), logger.Named("session"))
	res := s.Handle(cmd.Context(), session.Search{Query: strings.Join(args, " ")})
	if res.Status != session.StatusOK {
		msg := res.Message
		if msg == "" {
			msg = string(res.Status)
		}
		return fmt.Errorf("%s", msg)
	}

	icons := cfg.Icons()
	if !cmd.Flags().Changed("icons") && icons.Name == conditions.FontAwesome.Name {
		// terminal output reads better with emoji than CSS class names
		icons = conditions.Emoji
	}
	return renderView(cmd.OutOrStdout(), *res.Snapshot.View, icons)
}

// renderView prints a view model as a small report
func renderView(out io.Writer, view models.WeatherViewModel, icons conditions.IconSet) error {
	cur := view.Current
	fmt.Fprintf(out, "%s\n%s\n\n", view.Location.Label(), view.Date)
	fmt.Fprintf(out, "%s  %s%s  %s\n", icons.Icon(cur.Condition.Icon), cur.Temperature, cur.TemperatureUnit, cur.Condition.Description)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Humidity\t%s\n", cur.Humidity)
	fmt.Fprintf(w, "Wind\t%s\n", cur.WindSpeed)
	fmt.Fprintf(w, "Pressure\t%s\n", cur.Pressure)
	fmt.Fprintf(w, "Visibility\t%s\n", cur.Visibility)
	if cur.ObservedAt != "" {
		fmt.Fprintf(w, "Observed\t%s\n", cur.ObservedAt)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(view.Forecast) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\t\tHIGH\tLOW\tCONDITION\tPRECIPITATION")
	for _, day := range view.Forecast {
		precip := ""
		if day.Precipitation != nil {
			precip = day.Precipitation.Label
		}
		fmt.Fprintf(w, "%s %d\t%s\t%s\t%s\t%s\t%s\n",
			day.Weekday, day.DayOfMonth, icons.Icon(day.Condition.Icon),
			day.TempMax, day.TempMin, day.Condition.Description, precip)
	}
	return w.Flush()
}
