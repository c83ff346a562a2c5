package bufmgr

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferExceeded is returned when the bounded clock sweep of
	// allocFrame chooses no frame for replacement.
	ErrBufferExceeded = errors.New("bufmgr: buffer pool exceeded (no evictable frame found)")

	// ErrZeroBuffers is returned when constructing a pool with no frames.
	ErrZeroBuffers = errors.New("bufmgr: pool must have at least one frame")
)

// PageNotPinnedError reports an unpin of a resident page whose pin count
// is already zero.
type PageNotPinnedError struct {
	File    string
	PageNo  uint32
	FrameNo uint32
}

func (e *PageNotPinnedError) Error() string {
	return fmt.Sprintf("bufmgr: page %d of %s in frame %d is not pinned",
		e.PageNo, e.File, e.FrameNo)
}

// PagePinnedError reports a flush that hit a resident page still pinned
// by a caller.
type PagePinnedError struct {
	File    string
	PageNo  uint32
	FrameNo uint32
}

func (e *PagePinnedError) Error() string {
	return fmt.Sprintf("bufmgr: page %d of %s in frame %d is still pinned",
		e.PageNo, e.File, e.FrameNo)
}

// BadBufferError reports a resident frame whose page number is the
// invalid sentinel, which means the frame metadata is corrupted.
type BadBufferError struct {
	FrameNo uint32
	Dirty   bool
	Valid   bool
	Refbit  bool
}

func (e *BadBufferError) Error() string {
	return fmt.Sprintf("bufmgr: frame %d holds a corrupted page (dirty=%t valid=%t refbit=%t)",
		e.FrameNo, e.Dirty, e.Valid, e.Refbit)
}
