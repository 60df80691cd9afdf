package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/phonefix-cli/internal/model"
	"github.com/sells-group/phonefix-cli/internal/phone"
	"github.com/sells-group/phonefix-cli/internal/report"
	"github.com/sells-group/phonefix-cli/internal/retag"
	osmmocks "github.com/sells-group/phonefix-cli/pkg/osm/mocks"
	"github.com/sells-group/phonefix-cli/pkg/overpass"
	overpassmocks "github.com/sells-group/phonefix-cli/pkg/overpass/mocks"
)

func testOptions() Options {
	return Options{
		Area:      overpass.Area{Key: "ISO3166-2", Value: "NL-GR"},
		FilterTag: "phone",
	}
}

func testTransformer() *retag.Transformer {
	return retag.New(phone.Formatter{}, "NL", []string{"phone", "contact:phone", "contact:mobile", "fax", "contact:fax"})
}

func TestRun_ReportsChanges(t *testing.T) {
	q := overpassmocks.NewMockClient(t)
	n := osmmocks.NewMockClient(t)

	wantQuery := `[out:json];area["ISO3166-2"="NL-GR"]->.boundary;node(area.boundary)["phone"];out ids;`
	q.On("NodeIDs", mock.Anything, wantQuery).Return([]int64{1, 2}, nil)
	n.On("Nodes", mock.Anything, []int64{1, 2}).Return([]model.Node{
		{ID: 1, Tag: map[string]string{"phone": "0201234567"}},
		{ID: 2, Tag: map[string]string{"phone": "+31 20 123 4567"}},
	}, nil)

	rep, err := New(q, n, testTransformer(), testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Empty(t, rep.Message)
	assert.Equal(t, 2, rep.NodesMatched)
	require.Len(t, rep.Changes, 1)
	assert.Equal(t, "Node 1 Key phone:  0201234567  ==>  +31 20 123 4567", rep.Changes[0].String())
	require.Len(t, rep.Updated, 1)
	assert.Equal(t, int64(1), rep.Updated[0].ID)
}

func TestRun_NoMatchSkipsFetch(t *testing.T) {
	q := overpassmocks.NewMockClient(t)
	n := osmmocks.NewMockClient(t)

	q.On("NodeIDs", mock.Anything, mock.Anything).Return([]int64{}, nil)

	rep, err := New(q, n, testTransformer(), testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, report.NoMatchMessage, rep.Message)
	n.AssertNotCalled(t, "Nodes", mock.Anything, mock.Anything)
}

func TestRun_QueryErrorAborts(t *testing.T) {
	q := overpassmocks.NewMockClient(t)
	n := osmmocks.NewMockClient(t)

	q.On("NodeIDs", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := New(q, n, testTransformer(), testOptions()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: query nodes")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRun_FetchErrorAborts(t *testing.T) {
	q := overpassmocks.NewMockClient(t)
	n := osmmocks.NewMockClient(t)

	q.On("NodeIDs", mock.Anything, mock.Anything).Return([]int64{1}, nil)
	n.On("Nodes", mock.Anything, []int64{1}).Return(nil, errors.New("unexpected status 500"))

	_, err := New(q, n, testTransformer(), testOptions()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: fetch nodes")
}

func TestRun_NoChanges(t *testing.T) {
	q := overpassmocks.NewMockClient(t)
	n := osmmocks.NewMockClient(t)

	q.On("NodeIDs", mock.Anything, mock.Anything).Return([]int64{3}, nil)
	n.On("Nodes", mock.Anything, []int64{3}).Return([]model.Node{
		{ID: 3, Tag: map[string]string{"phone": "bel ons"}},
	}, nil)

	rep, err := New(q, n, testTransformer(), testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.NodesMatched)
	assert.NotNil(t, rep.Changes)
	assert.NotNil(t, rep.Updated)
	assert.Empty(t, rep.Changes)
	assert.Empty(t, rep.Updated)
}
