// Package pipeline runs a scan: query an area for nodes with phone tags,
// fetch the full nodes, rewrite their phone numbers and build the report.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/phonefix-cli/internal/report"
	"github.com/sells-group/phonefix-cli/internal/retag"
	"github.com/sells-group/phonefix-cli/pkg/osm"
	"github.com/sells-group/phonefix-cli/pkg/overpass"
)

// Options select the area and query behaviour for a scan.
type Options struct {
	Area         overpass.Area
	FilterTag    string
	QueryTimeout time.Duration
}

// Pipeline wires the query, fetch and transform stages.
type Pipeline struct {
	query       overpass.Client
	nodes       osm.Client
	transformer *retag.Transformer
	opts        Options
}

// New creates a Pipeline.
func New(query overpass.Client, nodes osm.Client, transformer *retag.Transformer, opts Options) *Pipeline {
	return &Pipeline{
		query:       query,
		nodes:       nodes,
		transformer: transformer,
		opts:        opts,
	}
}

// Run executes one scan. Network and decoding failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))
	start := time.Now()

	q := overpass.BuildQuery(p.opts.Area, p.opts.FilterTag, p.opts.QueryTimeout)
	log.Info("querying area",
		zap.String("area_key", p.opts.Area.Key),
		zap.String("area_value", p.opts.Area.Value),
		zap.String("filter_tag", p.opts.FilterTag),
	)

	ids, err := p.query.NodeIDs(ctx, q)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: query nodes")
	}
	if len(ids) == 0 {
		log.Info("no nodes matched")
		return report.NoMatch(runID), nil
	}

	nodes, err := p.nodes.Nodes(ctx, ids)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch nodes")
	}
	if len(nodes) == 0 {
		log.Info("no nodes returned", zap.Int("ids", len(ids)))
		return report.NoMatch(runID), nil
	}

	res, err := p.transformer.Apply(nodes)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: transform nodes")
	}

	log.Info("scan complete",
		zap.Int("ids", len(ids)),
		zap.Int("nodes", len(nodes)),
		zap.Int("nodes_to_update", len(res.Updated)),
		zap.Int("changed_tags", len(res.Changes)),
		zap.Duration("elapsed", time.Since(start)),
	)

	rep, err := report.New(runID, len(nodes), res.Changes, res.Updated)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build report")
	}
	return rep, nil
}
