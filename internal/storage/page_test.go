package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_InitAndIdentity(t *testing.T) {
	buf := make([]byte, PageSize)
	p := NewPage(buf, 7)

	assert.Equal(t, uint32(7), p.PageNumber())
	assert.Equal(t, InvalidPageNumber, p.nextFree())
	assert.Equal(t, PageDataSize, len(p.Data()))
	assert.False(t, p.IsUninitialized())

	require.NotEmpty(t, p.DebugString())
}

func TestPage_DataAliasesBuffer(t *testing.T) {
	buf := make([]byte, PageSize)
	p := NewPage(buf, 0)

	copy(p.Data(), []byte("hello"))
	assert.Equal(t, []byte("hello"), buf[PageHeaderSize:PageHeaderSize+5])

	// Re-init wipes the payload and restamps identity.
	p.Init(3)
	assert.Equal(t, uint32(3), p.PageNumber())
	assert.Equal(t, byte(0), p.Data()[0])
}

func TestPage_IsUninitialized(t *testing.T) {
	buf := make([]byte, PageSize)
	p := Page{Buf: buf}

	// An all-zero buffer was never stamped.
	assert.True(t, p.IsUninitialized())

	// Page 0 is still distinguishable because of the link slot stamp.
	p.Init(0)
	assert.False(t, p.IsUninitialized())
	assert.Equal(t, uint32(0), p.PageNumber())
}
