package glucorisk

import (
	"errors"
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/mocks"
	"glucotrend/glucorisk/pkg/dexcom"
	"glucotrend/glucorisk/pkg/metrics"
	"glucotrend/glucorisk/pkg/store"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type CommanderSuite struct {
	suite.Suite
	display *mocks.Display
	store   *store.MemoryStore
	source  *fakeSource
	metrics *metrics.Metrics
	handler func(defs.EventInfo, defs.CommandInteraction)
}

func TestCommanderSuite(t *testing.T) {
	suite.Run(t, new(CommanderSuite))
}

func (suite *CommanderSuite) SetupTest() {
	suite.display = mocks.NewDisplay()
	suite.store = store.NewMemoryStore()
	suite.source = &fakeSource{}
	suite.metrics = metrics.New()

	ch := &CommandHandler{
		Display: suite.display,
		Store:   suite.store,
		Fetcher: &Fetcher{
			Source:   suite.source,
			Uploader: &Uploader{Store: suite.store, Logger: zap.NewExample()},
			Logger:   zap.NewExample(),
		},
		Metrics:  suite.metrics,
		Logger:   zap.NewExample(),
		Location: time.UTC,
	}
	suite.handler = ch.CreateHandler()
}

func (suite *CommanderSuite) run(name string) string {
	suite.handler(defs.EventInfo{ID: 1, Token: "token"}, defs.CommandInteraction{Name: name})
	require.NotEmpty(suite.T(), suite.display.Responses)
	return suite.display.Responses[len(suite.display.Responses)-1].Content
}

func (suite *CommanderSuite) TestRiskWithoutSeries() {
	assert.Equal(suite.T(), noSeriesReply, suite.run(defs.RiskCmd))
	assert.Empty(suite.T(), suite.display.Channels)
}

func (suite *CommanderSuite) TestRiskPostsReport() {
	s := make(defs.Series, 0, 15)
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		v := 120.0
		if i >= 10 {
			v = 200
		}
		s = append(s, defs.Reading{Time: start.Add(time.Duration(i) * 5 * time.Minute), Value: v})
	}
	suite.store.Put(defs.Upload{Source: defs.SourceCSV, Series: s, Total: 15})

	reply := suite.run(defs.RiskCmd)

	assert.Equal(suite.T(), "risk is high, report posted to #reports", reply)
	msg, ok := suite.display.Last(defs.ReportsChannel)
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "2024-03-01 09:10 AM", msg.Embeds[0].Title)
	assert.Contains(suite.T(), msg.Embeds[0].Fields, defs.EmbedField{Name: "Score", Value: "6", Inline: true})
}

func (suite *CommanderSuite) TestSync() {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		suite.source.readings = append(suite.source.readings, &dexcom.Reading{
			Time:  now.Add(time.Duration(i) * 5 * time.Minute),
			Value: 110,
		})
	}

	assert.Equal(suite.T(), "loaded 6 readings from dexcom", suite.run(defs.SyncCmd))

	u, ok := suite.store.Get()
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), defs.SourceDexcom, u.Source)
}

func (suite *CommanderSuite) TestSyncFailureIsReported() {
	suite.source.err = errors.New("share unavailable")

	reply := suite.run(defs.SyncCmd)

	assert.Contains(suite.T(), reply, "share unavailable")
	_, ok := suite.store.Get()
	assert.False(suite.T(), ok)
}

func (suite *CommanderSuite) TestClear() {
	suite.store.Put(defs.Upload{Series: make(defs.Series, 3)})
	suite.metrics.CurrentReadings.Set(3)

	assert.Equal(suite.T(), "cleared current series", suite.run(defs.ClearCmd))

	_, ok := suite.store.Get()
	assert.False(suite.T(), ok)
	assert.Equal(suite.T(), 0.0, testutil.ToFloat64(suite.metrics.CurrentReadings))
}

func (suite *CommanderSuite) TestUnknownCommand() {
	assert.Equal(suite.T(), "unknown command: genreport", suite.run("genreport"))
}
