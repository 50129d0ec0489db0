package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinJobs: 2}

	var counter int64
	seen := make([]bool, 1000)
	For(len(seen), func(i int) {
		atomic.AddInt64(&counter, 1)
		seen[i] = true
	}, cfg)

	assert.Equal(t, int64(len(seen)), counter)
	for i, ok := range seen {
		require.True(t, ok, "missing job %d", i)
	}
}

func TestFor_Sequential(t *testing.T) {
	var order []int
	For(5, func(i int) {
		order = append(order, i)
	}, Config{Enabled: false})

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestFor_Empty(t *testing.T) {
	For(0, func(int) { t.Fatal("unexpected call") }, DefaultConfig())
}

func TestForErr(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	var ran int64

	err := ForErr(10, func(i int) error {
		atomic.AddInt64(&ran, 1)
		switch i {
		case 3:
			return errA
		case 7:
			return errB
		}
		return nil
	}, Config{Enabled: true, NumWorkers: 3, MinJobs: 2})

	assert.ErrorIs(t, err, errA)
	assert.Equal(t, int64(10), ran)
	assert.NoError(t, ForErr(3, func(int) error { return nil }, DefaultConfig()))
}
