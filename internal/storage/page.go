package storage

import "github.com/WillHofkamp/564p2/internal/alias/bx"

// +------------------+ 0
// | pageNo    (4)    |
// | nextFree  (4)    | <-- free-list link, InvalidPageNumber while live
// +------------------+ PageHeaderSize
// |                  |
// |    Payload       |
// |                  |
// +------------------+ PageSize (8192)
type Page struct {
	// buf := make([]byte, PageSize) -> max is only 8192
	Buf []byte
}

func NewPage(buf []byte, pageNo uint32) Page {
	p := Page{Buf: buf}
	p.Init(pageNo)
	return p
}

// ---- Page methods ----

// Init zeroes the buffer and stamps the page identity.
func (p Page) Init(pageNo uint32) {
	for i := range p.Buf {
		p.Buf[i] = 0
	}
	bx.PutU32At(p.Buf, 0, pageNo)
	bx.PutU32At(p.Buf, 4, InvalidPageNumber)
}

func (p Page) PageNumber() uint32 {
	return bx.U32At(p.Buf, 0)
}

func (p Page) setPageNumber(pageNo uint32) {
	bx.PutU32At(p.Buf, 0, pageNo)
}

func (p Page) nextFree() uint32 {
	return bx.U32At(p.Buf, 4)
}

func (p Page) setNextFree(pageNo uint32) {
	bx.PutU32At(p.Buf, 4, pageNo)
}

// Data returns the payload area of the page. Mutations are visible to the
// buffer pool slot the page aliases.
func (p Page) Data() []byte {
	return p.Buf[PageHeaderSize:]
}

// IsUninitialized reports whether the buffer holds bytes never stamped by
// Init. Live pages always carry InvalidPageNumber in the link slot, so an
// all-zero header can only come from a sparse or never-written region.
func (p Page) IsUninitialized() bool {
	return bx.U32At(p.Buf, 0) == 0 && bx.U32At(p.Buf, 4) == 0
}
