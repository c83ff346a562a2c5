package bufmgr

import "github.com/WillHofkamp/564p2/internal/storage"

// File is the paged-file contract the buffer manager drives. The manager
// never owns the files it caches for; callers open and close them.
type File interface {
	// ReadPage reads page pageNo into dst (exactly one page).
	ReadPage(pageNo uint32, dst []byte) error

	// WritePage persists one page from src.
	WritePage(pageNo uint32, src []byte) error

	// AllocatePage assigns a fresh page number.
	AllocatePage() (uint32, error)

	// DeletePage removes a page from the file.
	DeletePage(pageNo uint32) error

	// Name identifies the file in error messages.
	Name() string
}

var _ File = (*storage.File)(nil)

// FrameDesc holds the buffer-pool metadata of a single frame.
type FrameDesc struct {
	file    File
	pageNo  uint32
	frameNo uint32
	pinCnt  uint32
	dirty   bool
	valid   bool

	// refbit is the CLOCK reference bit.
	// CLOCK is an approximate LRU algorithm:
	//   - When a page is accessed, refbit is set to true.
	//   - When searching for a victim, frames with refbit == true are given
	//     a "second chance" (refbit is cleared and the hand moves on).
	//   - A frame with pinCnt == 0 and refbit == false can be evicted.
	refbit bool
}

// Set initializes the descriptor right after its frame is loaded with a
// page. The loading caller holds the first pin.
func (d *FrameDesc) Set(file File, pageNo uint32) {
	d.file = file
	d.pageNo = pageNo
	d.pinCnt = 1
	d.dirty = false
	d.valid = true
	d.refbit = true
}

// Clear resets the descriptor to the unused state.
func (d *FrameDesc) Clear() {
	d.file = nil
	d.pageNo = storage.InvalidPageNumber
	d.pinCnt = 0
	d.dirty = false
	d.valid = false
	d.refbit = false
}

// FrameNo returns the descriptor's position in the frame table.
func (d *FrameDesc) FrameNo() uint32 { return d.frameNo }

// PinCount returns the number of outstanding pins on the frame.
func (d *FrameDesc) PinCount() uint32 { return d.pinCnt }

// Valid reports whether the frame currently holds a loaded page.
func (d *FrameDesc) Valid() bool { return d.valid }

// Dirty reports whether the in-memory copy has unsaved modifications.
func (d *FrameDesc) Dirty() bool { return d.dirty }
