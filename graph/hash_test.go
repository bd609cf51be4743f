package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mycelium/graph"
)

func TestContentHash_SameBytesSameHash(t *testing.T) {
	a, err := graph.ContentHash([]byte("package main\n"))
	require.NoError(t, err)
	b, err := graph.ContentHash([]byte("package main\n"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestContentHash_DifferentBytesDifferentHash(t *testing.T) {
	a, err := graph.ContentHash([]byte("package main\n"))
	require.NoError(t, err)
	b, err := graph.ContentHash([]byte("package other\n"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
