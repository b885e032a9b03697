package piecetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorEmptyTree(t *testing.T) {
	tree := New()
	it := tree.Iter()

	_, ok := it.Next()
	assert.False(t, ok)
}

func TestIteratorVisitsInDocumentOrder(t *testing.T) {
	tree := New()

	require.NoError(t, tree.Insert(Piece{Buffer: Added, Offset: 0, Length: 7, LineBreaks: []int{3}}, 0, 0))
	require.NoError(t, tree.Insert(Piece{Buffer: Added, Offset: 7, Length: 5, LineBreaks: []int{2}}, 1, 0))

	it := tree.Iter()
	var lengths []int
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		lengths = append(lengths, p.Length)
	}

	total := 0
	for _, l := range lengths {
		total += l
	}
	assert.Equal(t, 12, total)

	_, ok := it.Next()
	assert.False(t, ok, "iterator must stay exhausted once drained")
}
