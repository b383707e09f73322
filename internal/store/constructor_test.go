package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

func newTestConstructor() (*Constructor, *seqIDs) {
	ids := &seqIDs{}
	return NewConstructor(ids, nil), ids
}

func placementIDs(c model.Composition) []string {
	res := make([]string, 0, len(c.Fillings))
	for _, f := range c.Fillings {
		res = append(res, f.PlacementID)
	}
	return res
}

func TestConstructor_AddBunGoesToSlot(t *testing.T) {
	c, ids := newTestConstructor()

	c.Add(bun)

	st := c.State()
	require.NotNil(t, st.Bun)
	assert.Equal(t, bun, *st.Bun)
	assert.Empty(t, st.Fillings)
	assert.Equal(t, 0, ids.n, "bun must not receive a placement id")
}

func TestConstructor_AddFillingGetsPlacementID(t *testing.T) {
	c, ids := newTestConstructor()

	c.Add(sauce)
	c.Add(sauce)

	st := c.State()
	require.Len(t, st.Fillings, 2)
	assert.Equal(t, 2, ids.n)
	for _, f := range st.Fillings {
		assert.Equal(t, sauce, f.Ingredient)
		assert.NotEqual(t, sauce.ID, f.PlacementID)
	}
	assert.NotEqual(t, st.Fillings[0].PlacementID, st.Fillings[1].PlacementID)
	assert.Nil(t, st.Bun)
}

func TestConstructor_BunReplacementKeepsFillings(t *testing.T) {
	c, _ := newTestConstructor()

	c.Add(bun)
	c.Add(sauce)
	c.Add(mainIngredient)
	c.SetBun(otherBun)

	st := c.State()
	require.NotNil(t, st.Bun)
	assert.Equal(t, otherBun.ID, st.Bun.ID)
	assert.Equal(t, []string{"placement-0", "placement-1"}, placementIDs(st))
}

func TestConstructor_RemoveFilling(t *testing.T) {
	c, _ := newTestConstructor()
	c.Add(sauce)
	c.Add(mainIngredient)

	c.RemoveFilling("placement-1")
	assert.Equal(t, []string{"placement-0"}, placementIDs(c.State()))

	before := c.State()
	c.RemoveFilling("absent")
	assert.Equal(t, before, c.State())
}

func TestConstructor_Move(t *testing.T) {
	tests := []struct {
		name  string
		fills []model.Ingredient
		move  func(c *Constructor)
		want  []string
	}{
		{
			name:  "up swaps with previous",
			fills: []model.Ingredient{sauce, mainIngredient},
			move:  func(c *Constructor) { c.MoveUp(1) },
			want:  []string{"placement-1", "placement-0"},
		},
		{
			name:  "up on first is no-op",
			fills: []model.Ingredient{sauce, mainIngredient},
			move:  func(c *Constructor) { c.MoveUp(0) },
			want:  []string{"placement-0", "placement-1"},
		},
		{
			name:  "up out of range is no-op",
			fills: []model.Ingredient{sauce, mainIngredient},
			move:  func(c *Constructor) { c.MoveUp(5) },
			want:  []string{"placement-0", "placement-1"},
		},
		{
			name:  "down swaps with next",
			fills: []model.Ingredient{sauce, mainIngredient},
			move:  func(c *Constructor) { c.MoveUp(1); c.MoveDown(0) },
			want:  []string{"placement-0", "placement-1"},
		},
		{
			name:  "down on last is no-op",
			fills: []model.Ingredient{sauce, mainIngredient},
			move:  func(c *Constructor) { c.MoveDown(1) },
			want:  []string{"placement-0", "placement-1"},
		},
		{
			name:  "down on single element is no-op",
			fills: []model.Ingredient{sauce},
			move:  func(c *Constructor) { c.MoveDown(0) },
			want:  []string{"placement-0"},
		},
		{
			name:  "down with negative index is no-op",
			fills: []model.Ingredient{sauce, mainIngredient},
			move:  func(c *Constructor) { c.MoveDown(-1) },
			want:  []string{"placement-0", "placement-1"},
		},
		{
			name:  "middle element moves up",
			fills: []model.Ingredient{sauce, mainIngredient, sauce},
			move:  func(c *Constructor) { c.MoveUp(2) },
			want:  []string{"placement-0", "placement-2", "placement-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConstructor()
			for _, ing := range tt.fills {
				c.Add(ing)
			}

			tt.move(c)

			assert.Equal(t, tt.want, placementIDs(c.State()))
		})
	}
}

func TestConstructor_ClearIsIdempotent(t *testing.T) {
	c, _ := newTestConstructor()
	c.Add(bun)
	c.Add(sauce)

	c.Clear()
	once := c.State()
	c.Clear()

	assert.Equal(t, model.Composition{Fillings: []model.ConstructorIngredient{}}, once)
	assert.Equal(t, once, c.State())
}

func TestConstructor_StateIsACopy(t *testing.T) {
	c, _ := newTestConstructor()
	c.Add(bun)
	c.Add(sauce)

	st := c.State()
	st.Fillings[0].Name = "changed"
	st.Bun.Name = "changed"

	again := c.State()
	assert.Equal(t, sauce.Name, again.Fillings[0].Name)
	assert.Equal(t, bun.Name, again.Bun.Name)
}

func TestComposition_PriceAndIDs(t *testing.T) {
	c, _ := newTestConstructor()
	c.Add(bun)
	c.Add(sauce)
	c.Add(mainIngredient)

	st := c.State()
	assert.Equal(t, 2*1255+90+424, st.Price())
	assert.Equal(t, []string{bun.ID, sauce.ID, mainIngredient.ID, bun.ID}, st.IngredientIDs())
	assert.Equal(t, 2, st.Count(bun.ID))
	assert.Equal(t, 1, st.Count(sauce.ID))
}
