package bufmgr

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WillHofkamp/564p2/internal/storage"
)

func newIndexFile(t *testing.T, name string) *storage.File {
	t.Helper()

	f, err := storage.OpenFile(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestPageIndex_Sizing(t *testing.T) {
	// ((⌊1.2N⌋ * 2) / 2) + 1 buckets.
	assert.Len(t, newPageIndex(1).buckets, 2)
	assert.Len(t, newPageIndex(10).buckets, 13)
	assert.Len(t, newPageIndex(100).buckets, 121)
}

func TestPageIndex_InsertLookupRemove(t *testing.T) {
	idx := newPageIndex(8)
	f := newIndexFile(t, "idx.db")

	_, ok := idx.lookup(f, 3)
	assert.False(t, ok)

	require.NoError(t, idx.insert(f, 3, 5))

	frameNo, ok := idx.lookup(f, 3)
	require.True(t, ok)
	assert.Equal(t, uint32(5), frameNo)

	assert.True(t, idx.remove(f, 3))
	_, ok = idx.lookup(f, 3)
	assert.False(t, ok)

	// Removing again reports absence.
	assert.False(t, idx.remove(f, 3))
}

func TestPageIndex_DuplicateInsertFails(t *testing.T) {
	idx := newPageIndex(8)
	f := newIndexFile(t, "dup.db")

	require.NoError(t, idx.insert(f, 1, 0))
	require.Error(t, idx.insert(f, 1, 2))

	// The original mapping is untouched.
	frameNo, ok := idx.lookup(f, 1)
	require.True(t, ok)
	assert.Equal(t, uint32(0), frameNo)
}

func TestPageIndex_DistinguishesFiles(t *testing.T) {
	idx := newPageIndex(8)
	f1 := newIndexFile(t, "a.db")
	f2 := newIndexFile(t, "b.db")

	require.NoError(t, idx.insert(f1, 7, 0))
	require.NoError(t, idx.insert(f2, 7, 1))

	frameNo, ok := idx.lookup(f1, 7)
	require.True(t, ok)
	assert.Equal(t, uint32(0), frameNo)

	frameNo, ok = idx.lookup(f2, 7)
	require.True(t, ok)
	assert.Equal(t, uint32(1), frameNo)

	assert.True(t, idx.remove(f1, 7))
	_, ok = idx.lookup(f2, 7)
	assert.True(t, ok, "removing one file's page must not touch the other's")
}

func TestPageIndex_CollidingChains(t *testing.T) {
	// A single-frame pool gets 2 buckets; many keys force shared chains.
	idx := newPageIndex(1)
	f := newIndexFile(t, "chain.db")

	for pageNo := uint32(0); pageNo < 16; pageNo++ {
		require.NoError(t, idx.insert(f, pageNo, pageNo))
	}
	for pageNo := uint32(0); pageNo < 16; pageNo++ {
		frameNo, ok := idx.lookup(f, pageNo)
		require.True(t, ok)
		assert.Equal(t, pageNo, frameNo)
	}

	// Remove from the middle of chains.
	for pageNo := uint32(0); pageNo < 16; pageNo += 2 {
		assert.True(t, idx.remove(f, pageNo))
	}
	for pageNo := uint32(0); pageNo < 16; pageNo++ {
		_, ok := idx.lookup(f, pageNo)
		assert.Equal(t, pageNo%2 == 1, ok)
	}
}
