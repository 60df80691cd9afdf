// Package model defines the OpenStreetMap records the tool reads and rewrites.
package model

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// SRID for WGS84 longitude/latitude coordinates.
const SRID = 4326

// Node is a single OSM node as returned by the bulk node lookup. The API's
// "tags" object is carried as Tag; all other fields pass through unchanged.
type Node struct {
	ID        int64             `json:"id" yaml:"id"`
	Lat       float64           `json:"lat" yaml:"lat"`
	Lon       float64           `json:"lon" yaml:"lon"`
	Version   int               `json:"version,omitempty" yaml:"version,omitempty"`
	Changeset int64             `json:"changeset,omitempty" yaml:"changeset,omitempty"`
	User      string            `json:"user,omitempty" yaml:"user,omitempty"`
	UID       int64             `json:"uid,omitempty" yaml:"uid,omitempty"`
	Timestamp string            `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Visible   *bool             `json:"visible,omitempty" yaml:"visible,omitempty"`
	Tag       map[string]string `json:"tag" yaml:"tag"`
}

// Position returns the node location as a WGS84 point.
func (n Node) Position() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{n.Lon, n.Lat}).SetSRID(SRID)
}

// TagChange records one rewritten tag on a node.
type TagChange struct {
	NodeID   int64  `json:"node_id" yaml:"node_id"`
	Key      string `json:"key" yaml:"key"`
	Original string `json:"original" yaml:"original"`
	Updated  string `json:"updated" yaml:"updated"`
}

// String renders the change as a single report line.
func (c TagChange) String() string {
	return fmt.Sprintf("Node %d Key %s:  %s  ==>  %s", c.NodeID, c.Key, c.Original, c.Updated)
}
