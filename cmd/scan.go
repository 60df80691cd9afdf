package main

import (
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/phonefix-cli/internal/config"
	"github.com/sells-group/phonefix-cli/internal/phone"
	"github.com/sells-group/phonefix-cli/internal/pipeline"
	"github.com/sells-group/phonefix-cli/internal/report"
	"github.com/sells-group/phonefix-cli/internal/retag"
	"github.com/sells-group/phonefix-cli/pkg/osm"
	"github.com/sells-group/phonefix-cli/pkg/overpass"
)

// scanFlags holds the scan command's flag values.
type scanFlags struct {
	areaKey     string
	areaValue   string
	filterTag   string
	region      string
	keys        []string
	output      string
	concurrency int
}

var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	var fl scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Report phone tags that would be rewritten in an area",
		Long:  "Queries Overpass for nodes in the configured area carrying the filter tag, fetches them from the OSM API in batches, and prints one line per phone tag whose value changes when formatted internationally. Nothing is written back to OpenStreetMap.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fl.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			format, err := report.ParseFormat(fl.output)
			if err != nil {
				return err
			}

			rep, err := newScanPipeline(cfg).Run(ctx)
			if err != nil {
				return err
			}

			return report.Write(cmd.OutOrStdout(), format, rep)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fl.areaKey, "area-key", "", "boundary tag key (default from config: ISO3166-2)")
	f.StringVar(&fl.areaValue, "area-value", "", "boundary tag value (default from config: NL-GR)")
	f.StringVar(&fl.filterTag, "filter-tag", "", "tag a node must carry to be queried (default from config: phone)")
	f.StringVar(&fl.region, "region", "", "default region for parsing numbers (default from config: NL)")
	f.StringSliceVar(&fl.keys, "keys", nil, "tag keys to rewrite, in order")
	f.StringVarP(&fl.output, "output", "o", string(report.FormatText), "output format: text, json or yaml")
	f.IntVar(&fl.concurrency, "concurrency", 0, "OSM batches fetched in parallel (default from config: 1)")

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// apply overrides config values with flags set on the command line.
func (fl *scanFlags) apply(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("area-key") {
		c.Area.Key = fl.areaKey
	}
	if flags.Changed("area-value") {
		c.Area.Value = fl.areaValue
	}
	if flags.Changed("filter-tag") {
		c.Area.FilterTag = fl.filterTag
	}
	if flags.Changed("region") {
		c.Phone.Region = fl.region
	}
	if flags.Changed("keys") {
		c.Phone.Keys = fl.keys
	}
	if flags.Changed("concurrency") {
		c.OSM.Concurrency = fl.concurrency
	}
}

// newScanPipeline builds the clients and transformer from configuration.
func newScanPipeline(c *config.Config) *pipeline.Pipeline {
	queryTimeout := time.Duration(c.Overpass.TimeoutSecs) * time.Second

	query := overpass.NewClient(
		overpass.WithURL(c.Overpass.URL),
		// Leave headroom over the server-side query timeout.
		overpass.WithHTTPClient(&http.Client{Timeout: queryTimeout + 30*time.Second}),
	)

	nodes := osm.NewClient(
		osm.WithBaseURL(c.OSM.BaseURL),
		osm.WithHTTPClient(&http.Client{Timeout: time.Duration(c.OSM.TimeoutSecs) * time.Second}),
		osm.WithBatchLimits(c.OSM.MaxStringLength, c.OSM.MaxIDs),
		osm.WithConcurrency(c.OSM.Concurrency),
		osm.WithRateLimit(c.OSM.RateLimit),
	)

	transformer := retag.New(phone.Formatter{}, c.Phone.Region, c.Phone.Keys)

	return pipeline.New(query, nodes, transformer, pipeline.Options{
		Area:         overpass.Area{Key: c.Area.Key, Value: c.Area.Value},
		FilterTag:    c.Area.FilterTag,
		QueryTimeout: queryTimeout,
	})
}
