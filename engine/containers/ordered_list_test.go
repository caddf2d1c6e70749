package containers

import (
	"cmp"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyed struct {
	name string
	key  int
}

func byKey(a, b *keyed) int {
	return cmp.Compare(a.key, b.key)
}

func names(items []*keyed) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestOrderedList_InsertKeepsOrder(t *testing.T) {
	l := NewOrderedList(byKey)
	l.Insert(&keyed{"ten", 10})
	l.Insert(&keyed{"five", 5})
	l.Insert(&keyed{"seven", 7})
	l.Insert(&keyed{"twenty", 20})

	assert.Equal(t, []string{"five", "seven", "ten", "twenty"}, names(l.Snapshot(nil)))
	assert.True(t, l.IsSorted())
}

func TestAscending(t *testing.T) {
	byName := Ascending(func(k *keyed) string { return k.name })
	a, b := &keyed{name: "a"}, &keyed{name: "b"}
	assert.Negative(t, byName(a, b))
	assert.Positive(t, byName(b, a))
	assert.Zero(t, byName(a, &keyed{name: "a"}))

	l := NewOrderedList(Ascending(func(k *keyed) float64 { return float64(k.key) / 2 }))
	l.Insert(&keyed{name: "three", key: 3})
	l.Insert(&keyed{name: "one", key: 1})
	l.Insert(&keyed{name: "two", key: 2})
	assert.Equal(t, []string{"one", "two", "three"}, names(l.Snapshot(nil)))
}

func TestOrderedList_TiesKeepInsertionOrder(t *testing.T) {
	l := NewOrderedList(byKey)
	l.Insert(&keyed{"a", 1})
	l.Insert(&keyed{"b", 1})
	l.Insert(&keyed{"z", 0})
	l.Insert(&keyed{"c", 1})

	assert.Equal(t, []string{"z", "a", "b", "c"}, names(l.Snapshot(nil)))
}

func TestOrderedList_RemoveAndResort(t *testing.T) {
	l := NewOrderedList(byKey)
	a := &keyed{"a", 1}
	b := &keyed{"b", 2}
	c := &keyed{"c", 3}
	l.Insert(a)
	l.Insert(b)
	l.Insert(c)

	a.key = 10
	require.True(t, l.Resort(a))
	assert.Equal(t, []string{"b", "c", "a"}, names(l.Snapshot(nil)))

	assert.True(t, l.Remove(b))
	assert.False(t, l.Remove(b))
	assert.False(t, l.Resort(b))
	assert.False(t, l.Contains(b))
	assert.Equal(t, 2, l.Len())
}

func TestOrderedList_SnapshotReusesBuffer(t *testing.T) {
	l := NewOrderedList(byKey)
	l.Insert(&keyed{"a", 1})

	buf := make([]*keyed, 0, 8)
	out := l.Snapshot(buf)
	require.Len(t, out, 1)
	assert.Equal(t, cap(buf), cap(out))

	// mutating the list does not touch the snapshot
	l.Insert(&keyed{"b", 0})
	assert.Equal(t, []string{"a"}, names(out))
}

func TestOrderedList_RandomOperationsStaySorted(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	l := NewOrderedList(byKey)
	live := []*keyed{}

	for i := 0; i < 500; i++ {
		if len(live) > 0 && rnd.Intn(3) == 0 {
			idx := rnd.Intn(len(live))
			require.True(t, l.Remove(live[idx]))
			live = append(live[:idx], live[idx+1:]...)
		} else {
			it := &keyed{key: rnd.Intn(50)}
			l.Insert(it)
			live = append(live, it)
		}
		require.True(t, l.IsSorted())
		require.Equal(t, len(live), l.Len())
	}
}
