package store

import (
	"glucotrend/glucorisk/defs"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *MemoryStore
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) SetupTest() {
	suite.store = NewMemoryStore()
}

func newUpload(n int, v float64) defs.Upload {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	s := make(defs.Series, n)
	for i := range s {
		s[i] = defs.Reading{Time: start.Add(time.Duration(i) * 5 * time.Minute), Value: v}
	}
	return defs.Upload{ID: uuid.New(), Source: defs.SourceCSV, Series: s, Total: n}
}

func (suite *StoreTestSuite) TestEmpty() {
	_, ok := suite.store.Get()
	assert.False(suite.T(), ok)
}

func (suite *StoreTestSuite) TestPutReplaces() {
	first, second := newUpload(3, 100), newUpload(7, 200)
	suite.store.Put(first)
	suite.store.Put(second)

	got, ok := suite.store.Get()
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), second.ID, got.ID)
	assert.Len(suite.T(), got.Series, 7)
}

func (suite *StoreTestSuite) TestCopiesInAndOut() {
	u := newUpload(5, 100)
	suite.store.Put(u)
	u.Series[0].Value = -1

	got, _ := suite.store.Get()
	assert.Equal(suite.T(), 100.0, got.Series[0].Value, "put must copy")

	got.Series[1].Value = -1
	again, _ := suite.store.Get()
	assert.Equal(suite.T(), 100.0, again.Series[1].Value, "get must copy")
}

func (suite *StoreTestSuite) TestClear() {
	suite.store.Put(newUpload(1, 1))
	suite.store.Clear()
	_, ok := suite.store.Get()
	assert.False(suite.T(), ok)
}

func (suite *StoreTestSuite) TestIsolatedStores() {
	other := NewMemoryStore()
	suite.store.Put(newUpload(2, 1))
	_, ok := other.Get()
	assert.False(suite.T(), ok)
}

func (suite *StoreTestSuite) TestConcurrentReadersSeeWholeUploads() {
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			suite.store.Put(newUpload(n, float64(n)))
		}(i)
		go func() {
			defer wg.Done()
			if u, ok := suite.store.Get(); ok {
				for _, r := range u.Series {
					assert.Equal(suite.T(), float64(len(u.Series)), r.Value)
				}
			}
		}()
	}
	wg.Wait()
}
