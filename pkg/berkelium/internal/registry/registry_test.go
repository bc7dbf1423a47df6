package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/pkg/berkelium/internal/registry"
)

type wrapper struct {
	handle uintptr
}

func TestGetOrCreate_ReturnsSameWrapper(t *testing.T) {
	r := registry.New[uintptr, *wrapper]()
	calls := 0
	create := func() *wrapper {
		calls++
		return &wrapper{handle: 0x10}
	}

	first, created := r.GetOrCreate(0x10, create)
	require.True(t, created)

	second, created := r.GetOrCreate(0x10, create)
	assert.False(t, created)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, r.Len())
}

func TestNotifyDestroyed_AllowsFreshWrapper(t *testing.T) {
	r := registry.New[uintptr, *wrapper]()

	first, _ := r.GetOrCreate(0x20, func() *wrapper { return &wrapper{handle: 0x20} })
	assert.True(t, r.NotifyDestroyed(0x20))
	assert.False(t, r.NotifyDestroyed(0x20))

	_, ok := r.Lookup(0x20)
	assert.False(t, ok)

	second, created := r.GetOrCreate(0x20, func() *wrapper { return &wrapper{handle: 0x20} })
	assert.True(t, created)
	assert.NotSame(t, first, second)
}

func TestRange_AllowsMutation(t *testing.T) {
	r := registry.New[int, string]()
	r.Put(1, "one")
	r.Put(2, "two")
	r.Put(3, "three")

	seen := map[int]string{}
	r.Range(func(k int, v string) bool {
		seen[k] = v
		r.NotifyDestroyed(k)
		return true
	})

	assert.Len(t, seen, 3)
	assert.Zero(t, r.Len())
}

func TestRange_StopsEarly(t *testing.T) {
	r := registry.New[int, int]()
	for i := range 5 {
		r.Put(i, i)
	}

	visits := 0
	r.Range(func(int, int) bool {
		visits++
		return false
	})
	assert.Equal(t, 1, visits)
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	r := registry.New[uintptr, *wrapper]()

	var wg sync.WaitGroup
	results := make([]*wrapper, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.GetOrCreate(0x30, func() *wrapper { return &wrapper{handle: 0x30} })
		}(i)
	}
	wg.Wait()

	for _, w := range results[1:] {
		assert.Same(t, results[0], w)
	}
}

func TestClear(t *testing.T) {
	r := registry.New[int, int]()
	r.Put(1, 1)
	r.Clear()
	assert.Zero(t, r.Len())
}
