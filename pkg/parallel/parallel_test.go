package parallel

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_PreservesOrder(t *testing.T) {
	inputs := []string{"c", "bb", "a", "dddd"}
	out, err := Map(context.Background(), inputs, len(inputs), func(ctx context.Context, s string) (string, error) {
		// longer inputs finish first
		time.Sleep(time.Duration(10-len(s)) * time.Millisecond)
		return strings.ToUpper(s), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "BB", "A", "DDDD"}, out)
}

func TestMap_Empty(t *testing.T) {
	out, err := Map(context.Background(), []int{}, 4, func(ctx context.Context, i int) (int, error) {
		t.Fatal("fn must not be called")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestMap_RespectsWorkerLimit(t *testing.T) {
	var running, peak atomic.Int32
	inputs := make([]int, 10)
	_, err := Map(context.Background(), inputs, 2, func(ctx context.Context, i int) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return i, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestMap_FirstErrorAbortsBatch(t *testing.T) {
	boom := errors.New("boom")
	inputs := []int{0, 1, 2, 3}
	out, err := Map(context.Background(), inputs, len(inputs), func(ctx context.Context, i int) (int, error) {
		if i == 1 {
			return 0, boom
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Second):
			return i, nil
		}
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, out)
}
