package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/phonefix-cli/internal/phone"
)

var checkRegion string

var checkCmd = &cobra.Command{
	Use:   "check <number>...",
	Short: "Validate and format phone numbers without querying OSM",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		region := cfg.Phone.Region
		if cmd.Flags().Changed("region") {
			region = checkRegion
		}
		if region == "" {
			return eris.New("check: region is required")
		}

		out := cmd.OutOrStdout()
		for _, arg := range args {
			formatted, ok := phone.Normalize(arg, region)
			if !ok {
				fmt.Fprintf(out, "%s  (invalid)\n", arg)
				continue
			}
			fmt.Fprintf(out, "%s  ==>  %s\n", arg, formatted)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkRegion, "region", "", "default region for parsing numbers (default from config: NL)")
	rootCmd.AddCommand(checkCmd)
}
