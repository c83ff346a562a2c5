// Package bufferpool is the top-level facade for the buffer manager.
package bufferpool

import (
	"github.com/WillHofkamp/564p2/internal/bufmgr"
	"github.com/WillHofkamp/564p2/internal/storage"
)

const (
	PageSize          = storage.PageSize
	PageDataSize      = storage.PageDataSize
	InvalidPageNumber = storage.InvalidPageNumber
)

type (
	BufMgr = bufmgr.BufMgr
	Stats  = bufmgr.Stats
	File   = bufmgr.File
	Page   = storage.Page

	PagedFile = storage.File

	PageNotPinnedError = bufmgr.PageNotPinnedError
	PagePinnedError    = bufmgr.PagePinnedError
	BadBufferError     = bufmgr.BadBufferError
)

var (
	ErrBufferExceeded = bufmgr.ErrBufferExceeded
	ErrZeroBuffers    = bufmgr.ErrZeroBuffers
)

// New allocates a buffer pool with numBufs frames.
func New(numBufs uint32) (*BufMgr, error) {
	return bufmgr.New(numBufs)
}

// OpenFile opens or creates a paged file for the pool to manage.
func OpenFile(path string) (*PagedFile, error) {
	return storage.OpenFile(path)
}
