package osm

import "strconv"

// Upstream limits for a single /nodes lookup.
const (
	DefaultMaxStringLength = 8000
	DefaultMaxIDs          = 725
)

// BatchIDs splits ids into ordered groups for bulk lookups. Ids are added
// greedily; an id starts a new group when appending it would make the
// comma-joined group reach maxStringLength (counting the separating comma)
// or the group's size reach maxIDs. Concatenating the groups yields ids.
//
// Empty input yields no groups and no group is ever empty. An id whose own
// text cannot fit under maxStringLength still gets a group of its own.
func BatchIDs(ids []int64, maxStringLength, maxIDs int) [][]string {
	var batches [][]string
	var current []string
	joinedLen := 0

	for _, id := range ids {
		s := strconv.FormatInt(id, 10)
		if joinedLen+1+len(s) < maxStringLength && len(current)+1 < maxIDs {
			if len(current) > 0 {
				joinedLen++
			}
			joinedLen += len(s)
			current = append(current, s)
			continue
		}

		if len(current) > 0 {
			batches = append(batches, current)
		}
		current = []string{s}
		joinedLen = len(s)
	}

	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
