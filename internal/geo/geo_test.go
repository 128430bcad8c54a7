package geo

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingFetch(calls *int32, loc *Location) fetchFunc {
	return func(ctx context.Context, ip string) *Location {
		atomic.AddInt32(calls, 1)
		return loc
	}
}

func TestLookupCachesSuccessForever(t *testing.T) {
	var calls int32
	c := NewCache(countingFetch(&calls, &Location{Country: "Germany", Region: "Berlin", City: "Berlin"}), time.Minute)

	loc := c.Lookup(context.Background(), "93.184.216.34")
	require.NotNil(t, loc)
	assert.Equal(t, "Germany", loc.Country)

	for i := 0; i < 5; i++ {
		c.Lookup(context.Background(), "93.184.216.34")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLookupBurstCoalescesIntoOneCall(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	c := NewCache(func(ctx context.Context, ip string) *Location {
		atomic.AddInt32(&calls, 1)
		<-started // 压住第一次查询，保证其余请求在在途状态下到达
		return &Location{Country: "France"}
	}, time.Minute)

	var wg sync.WaitGroup
	results := make([]*Location, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = c.Lookup(context.Background(), "93.184.216.34")
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(started)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, loc := range results {
		require.NotNil(t, loc)
		assert.Equal(t, "France", loc.Country)
	}
}

func TestLookupDistinctIPsProceedIndependently(t *testing.T) {
	var calls int32
	c := NewCache(countingFetch(&calls, &Location{Country: "France"}), time.Minute)

	c.Lookup(context.Background(), "93.184.216.34")
	c.Lookup(context.Background(), "203.0.113.7")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLookupPrivateIPNeverCallsFetch(t *testing.T) {
	var calls int32
	c := NewCache(countingFetch(&calls, &Location{Country: "France"}), time.Minute)

	for _, ip := range []string{
		"10.0.0.1",
		"172.16.5.5",
		"192.168.1.1",
		"127.0.0.1",
		"169.254.1.1",
		"0.0.0.0",
		"255.255.255.255",
		"::1",
		"fe80::1",
		"fd00::1",
		"::ffff:192.168.0.1",
		"not-an-ip",
		"",
	} {
		assert.Nil(t, c.Lookup(context.Background(), ip), ip)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestLookupNegativeCacheWithinGrace(t *testing.T) {
	var calls int32
	c := NewCache(countingFetch(&calls, nil), time.Hour)

	assert.Nil(t, c.Lookup(context.Background(), "93.184.216.34"))
	assert.Nil(t, c.Lookup(context.Background(), "93.184.216.34"))
	// 宽限期内不重查
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLookupRetriesAfterGraceExpires(t *testing.T) {
	var calls int32
	c := NewCache(countingFetch(&calls, nil), 10*time.Millisecond)

	assert.Nil(t, c.Lookup(context.Background(), "93.184.216.34"))
	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, c.Lookup(context.Background(), "93.184.216.34"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPruneExpiredDropsLapsedNegatives(t *testing.T) {
	var calls int32
	c := NewCache(countingFetch(&calls, nil), 10*time.Millisecond)

	c.Lookup(context.Background(), "93.184.216.34")
	c.Lookup(context.Background(), "203.0.113.7")

	assert.Equal(t, 0, c.PruneExpired())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, c.PruneExpired())
	assert.Equal(t, 0, c.PruneExpired())
}

func TestIsPrivatePublicAddresses(t *testing.T) {
	for _, ip := range []string{"93.184.216.34", "8.8.8.8", "2001:4860:4860::8888", "::ffff:8.8.8.8"} {
		assert.False(t, IsPrivate(ip), ip)
	}
}
