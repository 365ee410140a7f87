package glucorisk

import (
	"context"
	"errors"
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/pkg/dexcom"
	"glucotrend/glucorisk/pkg/store"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type fakeSource struct {
	readings []*dexcom.Reading
	err      error

	minutes, maxCount int
}

func (fs *fakeSource) Readings(ctx context.Context, minutes, maxCount int) ([]*dexcom.Reading, error) {
	fs.minutes, fs.maxCount = minutes, maxCount
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected a deadline")
	}
	return fs.readings, fs.err
}

type FetcherSuite struct {
	suite.Suite
	store   *store.MemoryStore
	source  *fakeSource
	fetcher *Fetcher
}

func TestFetcherSuite(t *testing.T) {
	suite.Run(t, new(FetcherSuite))
}

func (suite *FetcherSuite) SetupTest() {
	suite.store = store.NewMemoryStore()
	suite.source = &fakeSource{}
	suite.fetcher = &Fetcher{
		Source: suite.source,
		Uploader: &Uploader{
			Store:  suite.store,
			Logger: zap.NewExample(),
		},
		Logger: zap.NewExample(),
	}
}

func (suite *FetcherSuite) TestFetchAndLoad() {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.source.readings = []*dexcom.Reading{
		{Time: now.Add(-10 * time.Minute), Value: 110, Trend: "Flat"},
		{Time: now.Add(-5 * time.Minute), Value: 115.5, Trend: "FortyFiveUp"},
		{Time: now, Value: 121, Trend: "SingleUp"},
	}

	u, err := suite.fetcher.FetchAndLoad(context.Background())
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), dexcom.MinuteLimit, suite.source.minutes)
	assert.Equal(suite.T(), dexcom.CountLimit, suite.source.maxCount)

	assert.Equal(suite.T(), defs.SourceDexcom, u.Source)
	assert.Equal(suite.T(), 3, u.Total)
	assert.Equal(suite.T(), 0, u.Dropped)
	require.Len(suite.T(), u.Series, 3)
	assert.True(suite.T(), u.Series[2].Time.Equal(now))
	assert.Equal(suite.T(), 115.5, u.Series[1].Value)

	got, ok := suite.store.Get()
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), u.ID, got.ID)
}

func (suite *FetcherSuite) TestFetchError() {
	suite.source.err = errors.New("session rejected")

	_, err := suite.fetcher.FetchAndLoad(context.Background())

	assert.ErrorContains(suite.T(), err, "unable to fetch dexcom readings")
	_, ok := suite.store.Get()
	assert.False(suite.T(), ok)
}

func (suite *FetcherSuite) TestNoSource() {
	suite.fetcher.Source = nil

	_, err := suite.fetcher.FetchAndLoad(context.Background())

	assert.ErrorIs(suite.T(), err, defs.ErrNoDexcom)
}

func (suite *FetcherSuite) TestReadingsTable() {
	t := readingsTable([]*dexcom.Reading{
		{Time: time.Date(2024, 3, 1, 8, 0, 0, 0, time.FixedZone("EST", -5*3600)), Value: 98, Trend: "Flat"},
	})

	assert.Equal(suite.T(), []string{"time", "value", "trend"}, t.Header)
	require.Len(suite.T(), t.Rows, 1)
	assert.Equal(suite.T(), "2024-03-01T13:00:00Z", t.Rows[0]["time"])
	assert.Equal(suite.T(), "98", t.Rows[0]["value"])
	assert.Equal(suite.T(), "Flat", t.Rows[0]["trend"])
}
