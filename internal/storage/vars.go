package storage

import "errors"

const (
	OneB  = 1
	OneKB = 1024
	OneMB = OneKB * 1024
	OneGB = OneMB * 1024

	// 8KB page size, similar to PostgreSQL
	PageSize = OneKB * 8

	// PageHeaderSize covers the page number plus the free-list link slot.
	PageHeaderSize = 8

	// PageDataSize is the payload capacity of a single page.
	PageDataSize = PageSize - PageHeaderSize
)

const (
	FileMode0644 = 0o644 // rw-r--r--
	FileMode0664 = 0o664 // rw-rw-r--
	FileMode0755 = 0o755 // rwxr-xr-x
)

// InvalidPageNumber marks a page slot that carries no page. It doubles as
// the free-list terminator in the file header.
const InvalidPageNumber = ^uint32(0)

var (
	ErrPageOutOfRange = errors.New("storage: page number beyond end of file")
	ErrPageFree       = errors.New("storage: page has been deleted")
	ErrBadFileHeader  = errors.New("storage: bad file header")
	ErrFileClosed     = errors.New("storage: file is closed")
	ErrShortBuffer    = errors.New("storage: buffer must be exactly one page")
)
