package ingredient

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAdd(t *testing.T) {
	t.Run("ValidName_AppendsManualItem", func(t *testing.T) {
		l := NewList()

		item, err := l.Add("Eggs", "10", FreshnessFresh)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.True(t, item.Manual)
		assert.Equal(t, "Eggs", item.Name)
		assert.Equal(t, 1, l.Len())
	})

	t.Run("EmptyName_Rejected", func(t *testing.T) {
		l := NewList()

		_, err := l.Add("   ", "1", FreshnessFresh)

		assert.ErrorIs(t, err, ErrEmptyName)
		assert.Equal(t, 0, l.Len())
	})

	t.Run("DuplicateNames_Allowed", func(t *testing.T) {
		l := NewList()

		first, err := l.Add("Milk", "1L", FreshnessFresh)
		require.NoError(t, err)
		second, err := l.Add("Milk", "500ml", FreshnessModerate)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, 2, l.Len())
	})

	t.Run("InvalidFreshness_FallsBackToUnknown", func(t *testing.T) {
		l := NewList()

		item, err := l.Add("Cheese", "200g", Freshness("rotten"))

		require.NoError(t, err)
		assert.Equal(t, FreshnessUnknown, item.Freshness)
	})
}

func TestListUpdate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("PatchName_PreservesOrder", func(t *testing.T) {
		l := NewList()
		a, _ := l.Add("Tomato", "5", FreshnessFresh)
		b, _ := l.Add("Onion", "3", FreshnessModerate)

		updated, err := l.Update(a.ID, Patch{Name: strPtr("Cherry Tomato")})

		require.NoError(t, err)
		assert.Equal(t, "Cherry Tomato", updated.Name)

		items := l.Items()
		require.Len(t, items, 2)
		assert.Equal(t, a.ID, items[0].ID)
		assert.Equal(t, b.ID, items[1].ID)
	})

	t.Run("PatchedEmptyName_Rejected", func(t *testing.T) {
		l := NewList()
		a, _ := l.Add("Tomato", "5", FreshnessFresh)

		_, err := l.Update(a.ID, Patch{Name: strPtr("  ")})

		assert.ErrorIs(t, err, ErrEmptyName)
		got, _ := l.Get(a.ID)
		assert.Equal(t, "Tomato", got.Name, "failed patch must not mutate")
	})

	t.Run("UnknownID_ReturnsNotFound", func(t *testing.T) {
		l := NewList()

		_, err := l.Update(uuid.New(), Patch{Name: strPtr("x")})

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NilFields_LeaveValuesUntouched", func(t *testing.T) {
		l := NewList()
		a, _ := l.Add("Carrot", "4", FreshnessFresh)

		updated, err := l.Update(a.ID, Patch{Quantity: strPtr("2")})

		require.NoError(t, err)
		assert.Equal(t, "Carrot", updated.Name)
		assert.Equal(t, "2", updated.Quantity)
		assert.Equal(t, FreshnessFresh, updated.Freshness)
	})
}

func TestListRemove(t *testing.T) {
	t.Run("AddThenRemove_RestoresOriginalList", func(t *testing.T) {
		l := NewListFrom([]Ingredient{
			Recognized("Eggs", "10", "fresh", nil),
			Recognized("Milk", "1L", "fresh", nil),
		})
		before := l.Items()

		added, err := l.Add("Bacon", "150g", FreshnessModerate)
		require.NoError(t, err)
		l.Remove(added.ID)

		assert.Equal(t, before, l.Items())
	})

	t.Run("AbsentID_NoOp", func(t *testing.T) {
		l := NewList()
		l.Add("Eggs", "10", FreshnessFresh)

		l.Remove(uuid.New())

		assert.Equal(t, 1, l.Len())
	})
}

func TestListNames(t *testing.T) {
	l := NewList()
	l.Add("Eggs", "10", FreshnessFresh)
	l.Add("Milk", "1L", FreshnessFresh)
	l.Add("Milk", "500ml", FreshnessModerate)

	assert.Equal(t, []string{"Eggs", "Milk", "Milk"}, l.Names())
}

func TestParseFreshness(t *testing.T) {
	assert.Equal(t, FreshnessFresh, ParseFreshness("fresh"))
	assert.Equal(t, FreshnessModerate, ParseFreshness("moderate"))
	assert.Equal(t, FreshnessExpiring, ParseFreshness("expiring"))
	assert.Equal(t, FreshnessUnknown, ParseFreshness(""))
	assert.Equal(t, FreshnessUnknown, ParseFreshness("spoiled"))
}
