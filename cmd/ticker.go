package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	tickerProfile bool
	tickerJSON    bool
)

var tickerCmd = &cobra.Command{
	Use:   "ticker <firm name>",
	Short: "Resolve a firm name to its ticker",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		firm := strings.Join(args, " ")

		env, err := initPipeline(ctx, "ticker")
		if err != nil {
			return err
		}
		defer env.Close()

		var (
			v        any
			rendered string
		)
		if tickerProfile {
			p, err := env.Pipeline.Profile(ctx, firm)
			if err != nil {
				return err
			}
			v, rendered = p, renderProfile(p)
		} else {
			ft, err := env.Pipeline.FirmTicker(ctx, firm)
			if err != nil {
				return err
			}
			v, rendered = ft, renderFirmTicker(ft)
		}

		out := cmd.OutOrStdout()
		if tickerJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}
		fmt.Fprintln(out, rendered)
		return nil
	},
}

func init() {
	tickerCmd.Flags().BoolVar(&tickerProfile, "profile", false, "include financials, competitor, news and overview")
	tickerCmd.Flags().BoolVar(&tickerJSON, "json", false, "print the JSON response body")
	rootCmd.AddCommand(tickerCmd)
}
