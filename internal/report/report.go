// Package report renders the outcome of a scan to stdout.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/phonefix-cli/internal/model"
)

// NoMatchMessage is printed when the area query returns no nodes.
const NoMatchMessage = "No nodes matched with your query"

// Format selects the rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", eris.Errorf("report: unknown format %q (want text, json or yaml)", s)
	}
}

// Report is the outcome of one scan. Changes and Updated are always
// non-nil so JSON and YAML consumers see lists.
type Report struct {
	RunID        string            `json:"run_id" yaml:"run_id"`
	NodesMatched int               `json:"nodes_matched" yaml:"nodes_matched"`
	Message      string            `json:"message,omitempty" yaml:"message,omitempty"`
	Changes      []model.TagChange `json:"changes" yaml:"changes"`
	Updated      []UpdatedNode     `json:"updated" yaml:"updated"`
}

// Location is a GeoJSON geometry.
type Location struct {
	Type        string    `json:"type" yaml:"type"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates,flow"`
}

// UpdatedNode is a rewritten node together with its GeoJSON location.
type UpdatedNode struct {
	model.Node `yaml:",inline"`
	Location   *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// New builds the report for a scan that matched nodesMatched nodes.
func New(runID string, nodesMatched int, changes []model.TagChange, updated []model.Node) (*Report, error) {
	nodes, err := UpdatedNodes(updated)
	if err != nil {
		return nil, err
	}
	if changes == nil {
		changes = []model.TagChange{}
	}
	return &Report{
		RunID:        runID,
		NodesMatched: nodesMatched,
		Changes:      changes,
		Updated:      nodes,
	}, nil
}

// NoMatch returns the report for a query that matched nothing.
func NoMatch(runID string) *Report {
	return &Report{
		RunID:   runID,
		Message: NoMatchMessage,
		Changes: []model.TagChange{},
		Updated: []UpdatedNode{},
	}
}

// UpdatedNodes attaches a GeoJSON point location to each node.
func UpdatedNodes(nodes []model.Node) ([]UpdatedNode, error) {
	out := make([]UpdatedNode, 0, len(nodes))
	for _, n := range nodes {
		loc, err := pointLocation(n)
		if err != nil {
			return nil, err
		}
		out = append(out, UpdatedNode{Node: n, Location: loc})
	}
	return out, nil
}

func pointLocation(n model.Node) (*Location, error) {
	g, err := geojson.Encode(n.Position())
	if err != nil {
		return nil, eris.Wrapf(err, "report: encode location of node %d", n.ID)
	}

	loc := &Location{Type: g.Type}
	if g.Coordinates != nil {
		if err := json.Unmarshal(*g.Coordinates, &loc.Coordinates); err != nil {
			return nil, eris.Wrapf(err, "report: decode location of node %d", n.ID)
		}
	}
	return loc, nil
}

// Write renders r to w in the given format. Text output is one line per
// changed tag, or NoMatchMessage when nothing matched.
func Write(w io.Writer, f Format, r *Report) error {
	switch f {
	case FormatText:
		return writeText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "report: encode json")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "report: encode yaml")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "report: close yaml encoder")
		}
		return nil
	default:
		return eris.Errorf("report: unknown format %q", f)
	}
}

func writeText(w io.Writer, r *Report) error {
	if r.Message != "" {
		if _, err := fmt.Fprintln(w, r.Message); err != nil {
			return eris.Wrap(err, "report: write message")
		}
		return nil
	}
	for _, c := range r.Changes {
		if _, err := fmt.Fprintln(w, c.String()); err != nil {
			return eris.Wrap(err, "report: write change")
		}
	}
	return nil
}
