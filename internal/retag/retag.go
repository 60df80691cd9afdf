// Package retag rewrites phone-number tags on OSM nodes into international
// notation and records every tag it changes.
package retag

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/phonefix-cli/internal/model"
)

// Separators for multi-valued tags. Original values are reported joined
// with ValueSeparator; rewritten values are stored joined with
// RewriteSeparator.
const (
	ValueSeparator   = ";"
	RewriteSeparator = "; "
)

// NumberFormatter validates and formats a single phone number.
type NumberFormatter interface {
	IsValid(text, region string) bool
	FormatInternational(text, region string) (string, error)
}

// Transformer rewrites the configured tag keys on each node.
type Transformer struct {
	formatter NumberFormatter
	region    string
	keys      []string
}

// New creates a Transformer that parses numbers with region as the default
// region and inspects keys in order.
func New(formatter NumberFormatter, region string, keys []string) *Transformer {
	return &Transformer{
		formatter: formatter,
		region:    region,
		keys:      slices.Clone(keys),
	}
}

// Result holds the outcome of transforming a set of nodes.
type Result struct {
	// Updated holds the mutated nodes that had at least one tag rewritten,
	// in input order.
	Updated []model.Node
	// Changes holds one entry per rewritten tag, in processing order.
	Changes []model.TagChange
}

// Apply rewrites the phone tags of every node in place and returns the
// nodes that changed along with the individual tag changes.
func (t *Transformer) Apply(nodes []model.Node) (*Result, error) {
	res := &Result{
		Updated: []model.Node{},
		Changes: []model.TagChange{},
	}
	for i := range nodes {
		changes, err := t.ApplyNode(&nodes[i])
		if err != nil {
			return nil, err
		}
		if len(changes) == 0 {
			continue
		}
		res.Changes = append(res.Changes, changes...)
		res.Updated = append(res.Updated, nodes[i])
	}
	return res, nil
}

// ApplyNode rewrites the phone tags of a single node and returns the tag
// changes made.
func (t *Transformer) ApplyNode(node *model.Node) ([]model.TagChange, error) {
	var changes []model.TagChange
	for _, key := range t.keys {
		value, ok := node.Tag[key]
		if !ok {
			continue
		}

		original := SplitValues(value)
		formatted, err := t.formatValues(original)
		if err != nil {
			return nil, eris.Wrapf(err, "retag: node %d key %s", node.ID, key)
		}
		if slices.Equal(original, formatted) {
			continue
		}

		updated := strings.Join(formatted, RewriteSeparator)
		node.Tag[key] = updated
		changes = append(changes, model.TagChange{
			NodeID:   node.ID,
			Key:      key,
			Original: strings.Join(original, ValueSeparator),
			Updated:  updated,
		})

		zap.L().Debug("retag: tag rewritten",
			zap.Int64("node", node.ID),
			zap.String("key", key),
			zap.String("updated", updated),
		)
	}
	return changes, nil
}

func (t *Transformer) formatValues(values []string) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		if !t.formatter.IsValid(v, t.region) {
			out[i] = v
			continue
		}
		f, err := t.formatter.FormatInternational(v, t.region)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// SplitValues splits a tag value on ";" without trimming.
func SplitValues(value string) []string {
	return strings.Split(value, ValueSeparator)
}
