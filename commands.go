package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"meetnow/geo"
	"meetnow/schedule"
)

func newPresetsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in location presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := geo.Presets()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(presets)
			}
			for _, p := range presets {
				fmt.Fprintf(out, "%-12s %-16s %9.4f %9.4f  %s\n", p.Key, p.Label, p.Lat, p.Lng, strings.Join(p.Tags, ","))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print presets as JSON")
	return cmd
}

func newNextResetCommand() *cobra.Command {
	var (
		hour   int
		offset int
		from   string
	)
	cmd := &cobra.Command{
		Use:   "next-reset",
		Short: "Print when the next daily reset happens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if hour < 0 || hour > 23 {
				return fmt.Errorf("--hour must be within 0-23, got %d", hour)
			}
			now := time.Now()
			if from != "" {
				parsed, err := time.Parse(time.RFC3339, from)
				if err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
				now = parsed
			}

			loc := schedule.Tokyo
			if offset != 9 {
				loc = time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*60*60)
			}
			next := schedule.Daily{Hour: hour, Location: loc}.Next(now)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", next.Format(time.RFC3339), next.In(loc).Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().IntVar(&hour, "hour", schedule.DefaultDaily.Hour, "local hour of the reset")
	cmd.Flags().IntVar(&offset, "utc-offset", 9, "UTC offset of the reset zone, in hours")
	cmd.Flags().StringVar(&from, "from", "", "RFC3339 instant to compute from (default now)")
	return cmd
}
