package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/glance/internal/model"
)

var (
	analyzeNamespace string
	analyzeJSON      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <message>",
	Short: "Run one analysis and print the report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		resp, err := env.Pipeline.Analyze(ctx, model.QueryEnvelope{
			Message:   strings.Join(args, " "),
			Namespace: analyzeNamespace,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		fmt.Fprintln(out, renderAnalysis(resp))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeNamespace, "namespace", "", "document namespace to search")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the JSON response body")
	rootCmd.AddCommand(analyzeCmd)
}
