package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtreeIDsByName(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	ids, err := SubtreeIDsByName(ctx, st, "Food")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, ids)

	ids, err = SubtreeIDsByName(ctx, st, "fOOD")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, ids)

	ids, err = SubtreeIDsByName(ctx, st, "FastFood")
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids)

	ids, err = SubtreeIDsByName(ctx, st, "Cars")
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6, 7}, ids)
}

func TestSubtreeIDsByName_UnknownIsEmpty(t *testing.T) {
	st := setupTestStore(t)

	ids, err := SubtreeIDsByName(context.Background(), st, "Spaceships")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestSubtreeIDsByName_SameNameAtSeveralPositions(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	_, err := st.ExecContext(ctx, `INSERT INTO activities (id, name, parent_id) VALUES (8, 'Food', 5), (9, 'Snacks', 8)`)
	require.NoError(t, err)

	ids, err := SubtreeIDsByName(ctx, st, "food")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 8, 9}, ids)
}

func TestSiblingNamesUnique(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	_, err := st.ExecContext(ctx, `INSERT INTO activities (name, parent_id) VALUES ('Restaurants', 1)`)
	assert.Error(t, err)

	_, err = st.ExecContext(ctx, `INSERT INTO activities (name) VALUES ('Food')`)
	assert.Error(t, err, "root names are unique among roots")

	_, err = st.ExecContext(ctx, `INSERT INTO activities (name, parent_id) VALUES ('Restaurants', 5)`)
	assert.NoError(t, err)
}

func TestActivityTree(t *testing.T) {
	st := setupTestStore(t)

	tree, err := ActivityTree(context.Background(), st)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Cars", tree[0].Name)
	assert.Equal(t, "Food", tree[1].Name)

	food := tree[1]
	require.Len(t, food.Children, 2)
	assert.Equal(t, "Groceries", food.Children[0].Name)
	assert.Equal(t, "Restaurants", food.Children[1].Name)
	require.Len(t, food.Children[1].Children, 1)
	assert.Equal(t, "FastFood", food.Children[1].Children[0].Name)
}
