package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeChildren builds a children lookup over an in-memory parent -> children
// map, counting how many batched fetches the traversal performs.
func fakeChildren(tree map[primitive.ObjectID][]primitive.ObjectID, fetches *int) func(context.Context, []primitive.ObjectID) ([]primitive.ObjectID, error) {
	return func(_ context.Context, parents []primitive.ObjectID) ([]primitive.ObjectID, error) {
		*fetches++
		var out []primitive.ObjectID
		for _, p := range parents {
			out = append(out, tree[p]...)
		}
		return out, nil
	}
}

func TestCollectDescendantIDsEmpty(t *testing.T) {
	root := primitive.NewObjectID()
	fetches := 0

	ids, err := collectDescendantIDs(context.Background(), root, fakeChildren(nil, &fetches))
	require.NoError(t, err)

	assert.Empty(t, ids)
	assert.Equal(t, 1, fetches)
}

func TestCollectDescendantIDsChain(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	tree := map[primitive.ObjectID][]primitive.ObjectID{
		a: {b},
		b: {c},
	}
	fetches := 0

	ids, err := collectDescendantIDs(context.Background(), a, fakeChildren(tree, &fetches))
	require.NoError(t, err)

	assert.Equal(t, []primitive.ObjectID{b, c}, ids)
	// Two levels with children plus the final empty level.
	assert.Equal(t, 3, fetches)
}

func TestCollectDescendantIDsWideTree(t *testing.T) {
	root := primitive.NewObjectID()

	level1 := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	level2 := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	tree := map[primitive.ObjectID][]primitive.ObjectID{
		root:      level1,
		level1[0]: {level2[0]},
		level1[2]: {level2[1]},
	}
	fetches := 0

	ids, err := collectDescendantIDs(context.Background(), root, fakeChildren(tree, &fetches))
	require.NoError(t, err)

	assert.Len(t, ids, 5)
	assert.ElementsMatch(t, append(append([]primitive.ObjectID{}, level1...), level2...), ids)
	// One fetch per level regardless of width.
	assert.Equal(t, 3, fetches)
}

func TestReleasableBlobKeys(t *testing.T) {
	keys := []string{"users/a/images/one", "users/a/pdfs/two", "users/a/images/three"}

	t.Run("unreferenced keys released", func(t *testing.T) {
		release := releasableBlobKeys(keys, map[string]bool{})
		assert.Equal(t, keys, release)
	})

	t.Run("key shared with a surviving copy is kept", func(t *testing.T) {
		referenced := map[string]bool{"users/a/pdfs/two": true}
		release := releasableBlobKeys(keys, referenced)
		assert.Equal(t, []string{"users/a/images/one", "users/a/images/three"}, release)
	})

	t.Run("duplicates within the deleted set collapse", func(t *testing.T) {
		release := releasableBlobKeys([]string{"k", "k", "j"}, map[string]bool{})
		assert.Equal(t, []string{"k", "j"}, release)
	})

	t.Run("empty keys skipped", func(t *testing.T) {
		release := releasableBlobKeys([]string{"", "k"}, map[string]bool{})
		assert.Equal(t, []string{"k"}, release)
	})

	t.Run("everything referenced releases nothing", func(t *testing.T) {
		referenced := map[string]bool{}
		for _, k := range keys {
			referenced[k] = true
		}
		assert.Empty(t, releasableBlobKeys(keys, referenced))
	})
}

func TestCollectDescendantIDsPropagatesError(t *testing.T) {
	root := primitive.NewObjectID()
	boom := errors.New("find failed")

	_, err := collectDescendantIDs(context.Background(), root,
		func(context.Context, []primitive.ObjectID) ([]primitive.ObjectID, error) {
			return nil, boom
		})

	assert.ErrorIs(t, err, boom)
}
