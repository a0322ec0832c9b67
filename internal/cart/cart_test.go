package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"krumb/internal/store"
	"krumb/internal/types"
)

var (
	cookie  = types.Product{ID: "1", Name: "كوكيز", Price: 8.00}
	biscuit = types.Product{ID: "2", Name: "بسكويت تمر", Price: 7.50}
)

func TestAddMergesByID(t *testing.T) {
	s := New(store.NewMemoryStore())

	s.Add(cookie)
	s.Add(cookie)
	s.Add(biscuit)

	lines := s.Lines()
	require.Len(t, lines, 2, "same product must merge into one line")
	require.Equal(t, 2, lines[0].Quantity)
	require.Equal(t, 1, lines[1].Quantity)
	require.Equal(t, 3, s.Count())
}

func TestSetQuantityIsAbsolute(t *testing.T) {
	s := New(store.NewMemoryStore())
	s.Add(cookie)

	s.SetQuantity("1", 5)
	require.Equal(t, 5, s.Lines()[0].Quantity)

	s.SetQuantity("1", 2)
	require.Equal(t, 2, s.Lines()[0].Quantity)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	s := New(store.NewMemoryStore())
	s.Add(cookie)
	s.Add(biscuit)

	s.SetQuantity("1", 0)
	lines := s.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "2", lines[0].ID)

	s.SetQuantity("2", -3)
	require.True(t, s.Empty())
}

func TestSetQuantityAbsentIDCreatesNothing(t *testing.T) {
	s := New(store.NewMemoryStore())

	notified := false
	s.Subscribe(func() { notified = true })

	s.SetQuantity("999", 4)
	require.True(t, s.Empty())
	require.False(t, notified, "a miss must not fire observers")
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	s := New(store.NewMemoryStore())
	s.Add(cookie)

	s.Remove("999")
	require.Len(t, s.Lines(), 1)
}

func TestTotalAndSubtotals(t *testing.T) {
	s := New(store.NewMemoryStore())
	s.Add(cookie)
	s.Add(cookie)
	s.Add(biscuit)

	require.InDelta(t, 16.00, s.Lines()[0].Subtotal(), 0.001)
	require.InDelta(t, 23.50, s.Total(), 0.001)
}

func TestClearDeletesMirrorEntry(t *testing.T) {
	adapter := store.NewMemoryStore()
	s := New(adapter)
	s.Add(cookie)
	require.True(t, adapter.Has(store.KeyCart))

	s.Clear()
	require.True(t, s.Empty())
	require.False(t, adapter.Has(store.KeyCart), "clear must delete the entry, not save an empty list")
}

func TestRestoreFromMirror(t *testing.T) {
	adapter := store.NewMemoryStore()
	first := New(adapter)
	first.Add(cookie)
	first.SetQuantity("1", 3)

	second := New(adapter)
	lines := second.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 3, lines[0].Quantity)
	require.InDelta(t, 24.00, second.Total(), 0.001)
}

func TestRestoreCorruptMirrorStartsEmpty(t *testing.T) {
	adapter := store.NewMemoryStore()
	require.NoError(t, adapter.Save(store.KeyCart, []byte(`{{nope`)))

	s := New(adapter)
	require.True(t, s.Empty())
}

func TestApplyCatalogUpdatePatchesLineKeepsQuantity(t *testing.T) {
	s := New(store.NewMemoryStore())
	s.Add(cookie)
	s.SetQuantity("1", 4)

	s.ApplyCatalogUpdate(types.Product{ID: "1", Name: "كوكيز محشي", Price: 10.00})

	lines := s.Lines()
	require.Equal(t, "كوكيز محشي", lines[0].Name)
	require.InDelta(t, 10.00, lines[0].Price, 0.001)
	require.Equal(t, 4, lines[0].Quantity)
	require.InDelta(t, 40.00, s.Total(), 0.001)
}

func TestApplyCatalogUpdateMissIsSilent(t *testing.T) {
	s := New(store.NewMemoryStore())
	s.Add(cookie)

	notified := false
	s.Subscribe(func() { notified = true })

	s.ApplyCatalogUpdate(biscuit)
	require.False(t, notified)
	require.Len(t, s.Lines(), 1)
}

func TestMutationsMirrorEveryTime(t *testing.T) {
	adapter := store.NewMemoryStore()
	s := New(adapter)

	s.Add(cookie)
	s.Add(biscuit)
	s.Remove("1")

	data, ok := adapter.Load(store.KeyCart)
	require.True(t, ok)

	var persisted []types.CartLine
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Len(t, persisted, 1)
	require.Equal(t, "2", persisted[0].ID)
}

func TestObserverFiresOnEveryMutation(t *testing.T) {
	s := New(store.NewMemoryStore())

	count := 0
	s.Subscribe(func() { count++ })

	s.Add(cookie)         // 1
	s.SetQuantity("1", 2) // 2
	s.Remove("1")         // 3
	s.Clear()             // 4

	require.Equal(t, 4, count)
}
