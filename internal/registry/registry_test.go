package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojo-runtime/mojo/internal/model"
)

func TestStore(t *testing.T) {
	s := New()
	a := &model.Ensemble{NTrees: 1}
	b := &model.Ensemble{NTrees: 2}

	ida := s.Add("beta", a)
	idb := s.Add("alpha", b)
	assert.NotEqual(t, ida, idb)
	assert.Equal(t, 2, s.Len())

	got, err := s.Get(ida)
	require.NoError(t, err)
	assert.Same(t, a, got)

	got, err = s.Lookup(idb.String())
	require.NoError(t, err)
	assert.Same(t, b, got)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "beta", list[1].Name)

	assert.True(t, s.Remove(ida))
	assert.False(t, s.Remove(ida))
	_, err = s.Get(ida)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Lookup("not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreConcurrent(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, 100)
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.Add(fmt.Sprintf("m%d", i), &model.Ensemble{})
			ids <- id
			_, _ = s.Get(id)
			_ = s.List()
		}()
	}
	wg.Wait()
	close(ids)
	assert.Equal(t, 100, s.Len())

	for id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, s.Remove(id))
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, s.Len())
}
