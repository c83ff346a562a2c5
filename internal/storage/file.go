package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/WillHofkamp/564p2/internal/alias/bx"
)

const (
	fileMagic   uint32 = 0x46475042 // "BPGF"
	fileVersion uint16 = 1

	hdrMagicOff     = 0
	hdrVersionOff   = 4
	hdrPageCountOff = 8
	hdrFreeHeadOff  = 12
)

// File is a paged file. The first PageSize bytes hold the file header;
// page N lives at offset (N+1)*PageSize. Deleted pages form a singly
// linked free list threaded through their header link slots, with the
// head kept in the file header.
type File struct {
	f         *os.File
	path      string
	pageCount uint32
	freeHead  uint32
}

// OpenFile opens or creates a paged file at path.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, FileMode0644)
	if err != nil {
		return nil, fmt.Errorf("open paged file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat paged file: %w", err)
	}

	pf := &File{f: f, path: path, freeHead: InvalidPageNumber}

	if info.Size() == 0 {
		if err := pf.writeHeader(); err != nil {
			_ = f.Close()
			return nil, err
		}
		return pf, nil
	}

	if err := pf.readHeader(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return pf, nil
}

func (pf *File) writeHeader() error {
	buf := make([]byte, PageSize)
	bx.PutU32At(buf, hdrMagicOff, fileMagic)
	bx.PutU16At(buf, hdrVersionOff, fileVersion)
	bx.PutU32At(buf, hdrPageCountOff, pf.pageCount)
	bx.PutU32At(buf, hdrFreeHeadOff, pf.freeHead)

	if _, err := pf.f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("write file header: %w", err)
	}
	return nil
}

func (pf *File) readHeader() error {
	buf := make([]byte, PageSize)
	n, err := pf.f.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return fmt.Errorf("read file header: %w", err)
	}
	if n < hdrFreeHeadOff+4 {
		return ErrBadFileHeader
	}
	if bx.U32At(buf, hdrMagicOff) != fileMagic {
		return ErrBadFileHeader
	}
	if bx.U16At(buf, hdrVersionOff) != fileVersion {
		return ErrBadFileHeader
	}
	pf.pageCount = bx.U32At(buf, hdrPageCountOff)
	pf.freeHead = bx.U32At(buf, hdrFreeHeadOff)
	return nil
}

// Name returns the file path, used by callers for error reporting.
func (pf *File) Name() string {
	return pf.path
}

// PageCount returns the number of page slots the file has ever allocated,
// including slots currently on the free list.
func (pf *File) PageCount() uint32 {
	return pf.pageCount
}

func (pf *File) pageOffset(pageNo uint32) int64 {
	return int64(pageNo+1) * PageSize
}

// ReadPage reads exactly one page into dst. A slot past the last written
// byte of the file reads back zero-filled; such pages are lazily
// initialized by higher layers.
func (pf *File) ReadPage(pageNo uint32, dst []byte) error {
	if pf.f == nil {
		return ErrFileClosed
	}
	if len(dst) != PageSize {
		return ErrShortBuffer
	}
	if pageNo >= pf.pageCount {
		return fmt.Errorf("%w: page %d of %s (pageCount=%d)",
			ErrPageOutOfRange, pageNo, pf.path, pf.pageCount)
	}

	n, err := pf.f.ReadAt(dst, pf.pageOffset(pageNo))
	if err != nil && err != io.EOF {
		return fmt.Errorf("read page %d of %s: %w", pageNo, pf.path, err)
	}
	// Zero-fill the rest of the page if we hit EOF early or a short read.
	for i := n; i < PageSize; i++ {
		dst[i] = 0
	}
	if bx.U32At(dst, 0) == InvalidPageNumber {
		return fmt.Errorf("%w: page %d of %s", ErrPageFree, pageNo, pf.path)
	}
	return nil
}

// WritePage persists exactly one page from src.
func (pf *File) WritePage(pageNo uint32, src []byte) error {
	if pf.f == nil {
		return ErrFileClosed
	}
	if len(src) != PageSize {
		return ErrShortBuffer
	}
	if pageNo >= pf.pageCount {
		return fmt.Errorf("%w: page %d of %s (pageCount=%d)",
			ErrPageOutOfRange, pageNo, pf.path, pf.pageCount)
	}

	n, err := pf.f.WriteAt(src, pf.pageOffset(pageNo))
	if err != nil {
		return fmt.Errorf("write page %d of %s: %w", pageNo, pf.path, err)
	}
	if n != PageSize {
		return io.ErrShortWrite
	}
	return nil
}

// AllocatePage assigns a new page number, reusing the free list before
// extending the file. The slot itself stays sparse until first written.
func (pf *File) AllocatePage() (uint32, error) {
	if pf.f == nil {
		return InvalidPageNumber, ErrFileClosed
	}

	if pf.freeHead != InvalidPageNumber {
		pageNo := pf.freeHead

		// Pop: the free slot's link field points at the next free page.
		buf := make([]byte, PageSize)
		n, err := pf.f.ReadAt(buf, pf.pageOffset(pageNo))
		if err != nil && err != io.EOF {
			return InvalidPageNumber, fmt.Errorf("read free page %d of %s: %w", pageNo, pf.path, err)
		}
		for i := n; i < PageSize; i++ {
			buf[i] = 0
		}
		pf.freeHead = Page{Buf: buf}.nextFree()

		// Rewrite the slot as a fresh empty page.
		p := NewPage(buf, pageNo)
		if _, err := pf.f.WriteAt(p.Buf, pf.pageOffset(pageNo)); err != nil {
			return InvalidPageNumber, fmt.Errorf("reinit page %d of %s: %w", pageNo, pf.path, err)
		}
		if err := pf.writeHeader(); err != nil {
			return InvalidPageNumber, err
		}
		return pageNo, nil
	}

	pageNo := pf.pageCount
	pf.pageCount++
	if err := pf.writeHeader(); err != nil {
		pf.pageCount--
		return InvalidPageNumber, err
	}
	return pageNo, nil
}

// DeletePage removes a page from the file and pushes its slot onto the
// free list.
func (pf *File) DeletePage(pageNo uint32) error {
	if pf.f == nil {
		return ErrFileClosed
	}
	if pageNo >= pf.pageCount {
		return fmt.Errorf("%w: page %d of %s (pageCount=%d)",
			ErrPageOutOfRange, pageNo, pf.path, pf.pageCount)
	}

	p := Page{Buf: make([]byte, PageSize)}
	p.setPageNumber(InvalidPageNumber)
	p.setNextFree(pf.freeHead)
	if _, err := pf.f.WriteAt(p.Buf, pf.pageOffset(pageNo)); err != nil {
		return fmt.Errorf("free page %d of %s: %w", pageNo, pf.path, err)
	}

	pf.freeHead = pageNo
	return pf.writeHeader()
}

// Close flushes the header and releases the underlying file.
func (pf *File) Close() error {
	if pf.f == nil {
		return nil
	}
	if err := pf.writeHeader(); err != nil {
		_ = pf.f.Close()
		pf.f = nil
		return err
	}
	err := pf.f.Close()
	pf.f = nil
	return err
}
