package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordTiming(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpCount, 10*time.Millisecond, nil)
	c.RecordTiming(OpCount, 30*time.Millisecond, errors.New("boom"))
	c.RecordTiming(OpFind, 5*time.Millisecond, nil)

	snap := c.Snapshot()
	require.Len(t, snap, 2)

	assert.Equal(t, OperationSnapshot{
		Name:        OpCount,
		Count:       2,
		Errors:      1,
		TotalTimeMs: 40,
		AvgTimeMs:   20,
		MinTimeMs:   10,
		MaxTimeMs:   30,
	}, snap[0])
	assert.Equal(t, OpFind, snap[1].Name)
	assert.Equal(t, int64(1), snap[1].Count)
}

func TestCollectorTime(t *testing.T) {
	c := NewCollector()
	done := c.Time(OpList)
	done(nil)

	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, OpList, snap[0].Name)
	assert.Equal(t, int64(0), snap[0].Errors)
	assert.Greater(t, c.Uptime(), time.Duration(0))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.Time(OpCount)(nil)
	c.RecordTiming(OpFind, time.Second, nil)
	assert.Nil(t, c.Snapshot())
}
