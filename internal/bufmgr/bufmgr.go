package bufmgr

import (
	"log/slog"

	"github.com/WillHofkamp/564p2/internal/storage"
)

var logDebugPrefix = "bufmgr: "

// Stats counts buffer pool traffic since construction.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// BufMgr keeps a fixed number of pages resident in memory, evicting with
// a CLOCK policy when a frame is needed. It is single-threaded: callers
// serialize all operations, and a page reference returned by ReadPage or
// AllocPage aliases the pool slot, so it is only valid until the matching
// UnPinPage.
type BufMgr struct {
	numBufs   uint32
	clockHand uint32

	pool  []storage.Page
	descs []FrameDesc
	table *pageIndex
	stats Stats
}

// New allocates a pool of numBufs frames backed by a single arena.
func New(numBufs uint32) (*BufMgr, error) {
	if numBufs == 0 {
		return nil, ErrZeroBuffers
	}

	arena := make([]byte, int(numBufs)*storage.PageSize)

	bm := &BufMgr{
		numBufs: numBufs,
		// First advance lands the hand on frame 0.
		clockHand: numBufs - 1,
		pool:      make([]storage.Page, numBufs),
		descs:     make([]FrameDesc, numBufs),
		table:     newPageIndex(numBufs),
	}
	for i := uint32(0); i < numBufs; i++ {
		bm.pool[i] = storage.Page{Buf: arena[int(i)*storage.PageSize : int(i+1)*storage.PageSize]}
		bm.descs[i].frameNo = i
		bm.descs[i].Clear()
	}
	return bm, nil
}

// NumBufs returns the pool size in frames.
func (bm *BufMgr) NumBufs() uint32 { return bm.numBufs }

// Stats returns a copy of the traffic counters.
func (bm *BufMgr) Stats() Stats { return bm.stats }

// ReadPage returns the requested page pinned in the pool, loading it from
// the file on a miss. The reference stays valid until the matching
// UnPinPage.
func (bm *BufMgr) ReadPage(file File, pageNo uint32) (*storage.Page, error) {
	if frameNo, ok := bm.table.lookup(file, pageNo); ok {
		desc := &bm.descs[frameNo]
		desc.refbit = true
		desc.pinCnt++
		bm.stats.Hits++

		slog.Debug(logDebugPrefix+"read hit",
			"file", file.Name(),
			"pageNo", pageNo,
			"frame", frameNo,
			"pin", desc.pinCnt)
		return &bm.pool[frameNo], nil
	}

	frameNo, err := bm.allocFrame()
	if err != nil {
		return nil, err
	}

	pg := bm.pool[frameNo]
	if err := file.ReadPage(pageNo, pg.Buf); err != nil {
		// The frame stays cleared; no index entry was installed.
		return nil, err
	}
	if pg.IsUninitialized() {
		pg.Init(pageNo)
	}

	if err := bm.table.insert(file, pageNo, frameNo); err != nil {
		return nil, err
	}
	bm.descs[frameNo].Set(file, pageNo)
	bm.stats.Misses++

	slog.Debug(logDebugPrefix+"read miss loaded",
		"file", file.Name(),
		"pageNo", pageNo,
		"frame", frameNo)
	return &bm.pool[frameNo], nil
}

// UnPinPage releases one pin on a resident page, optionally marking it
// dirty. Dirtiness is sticky: a later clean unpin never clears it.
// Unpinning a non-resident page is tolerated silently so teardown paths
// need not coordinate with eviction order.
func (bm *BufMgr) UnPinPage(file File, pageNo uint32, dirty bool) error {
	frameNo, ok := bm.table.lookup(file, pageNo)
	if !ok {
		return nil
	}

	desc := &bm.descs[frameNo]
	if desc.pinCnt == 0 {
		return &PageNotPinnedError{File: file.Name(), PageNo: pageNo, FrameNo: frameNo}
	}
	desc.pinCnt--
	if dirty {
		desc.dirty = true
	}

	// refbit is left alone: the matching ReadPage already set it.
	slog.Debug(logDebugPrefix+"unpin",
		"file", file.Name(),
		"pageNo", pageNo,
		"frame", frameNo,
		"dirty", desc.dirty,
		"pin", desc.pinCnt)
	return nil
}

// AllocPage creates a new page in the file and pins its empty image in
// the pool.
func (bm *BufMgr) AllocPage(file File) (uint32, *storage.Page, error) {
	pageNo, err := file.AllocatePage()
	if err != nil {
		return storage.InvalidPageNumber, nil, err
	}

	frameNo, err := bm.allocFrame()
	if err != nil {
		return storage.InvalidPageNumber, nil, err
	}

	pg := bm.pool[frameNo]
	pg.Init(pageNo)

	if err := bm.table.insert(file, pageNo, frameNo); err != nil {
		return storage.InvalidPageNumber, nil, err
	}
	bm.descs[frameNo].Set(file, pageNo)

	slog.Debug(logDebugPrefix+"allocated page",
		"file", file.Name(),
		"pageNo", pageNo,
		"frame", frameNo)
	return pageNo, &bm.pool[frameNo], nil
}

// DisposePage drops a page from the pool if resident and deletes it from
// the file. The caller must hold no pin on the page; this is not checked.
func (bm *BufMgr) DisposePage(file File, pageNo uint32) error {
	if frameNo, ok := bm.table.lookup(file, pageNo); ok {
		bm.table.remove(file, pageNo)
		bm.descs[frameNo].Clear()
	}
	return file.DeletePage(pageNo)
}

// FlushFile writes back and releases every resident page of file. The
// caller must have unpinned them all; the first pinned or corrupted frame
// aborts the flush, leaving frames already processed flushed and cleared.
func (bm *BufMgr) FlushFile(file File) error {
	for i := range bm.descs {
		desc := &bm.descs[i]
		if !desc.valid || desc.file != file {
			continue
		}
		if desc.pageNo == storage.InvalidPageNumber {
			return &BadBufferError{
				FrameNo: desc.frameNo,
				Dirty:   desc.dirty,
				Valid:   desc.valid,
				Refbit:  desc.refbit,
			}
		}
		if desc.pinCnt > 0 {
			return &PagePinnedError{File: file.Name(), PageNo: desc.pageNo, FrameNo: desc.frameNo}
		}

		if desc.dirty {
			if err := desc.file.WritePage(desc.pageNo, bm.pool[i].Buf); err != nil {
				return err
			}
			desc.dirty = false
			bm.stats.Writebacks++
		}
		bm.table.remove(file, desc.pageNo)
		desc.Clear()
	}

	slog.Debug(logDebugPrefix+"flushed file", "file", file.Name())
	return nil
}

// Close writes back every valid dirty frame. Pages still pinned are
// written back anyway and logged; leaked pins are a caller bug, not a
// close failure. The first write error is returned after the sweep
// completes.
func (bm *BufMgr) Close() error {
	var firstErr error
	for i := range bm.descs {
		desc := &bm.descs[i]
		if !desc.valid || !desc.dirty {
			continue
		}
		if desc.pinCnt > 0 {
			slog.Warn(logDebugPrefix+"closing with pinned page",
				"file", desc.file.Name(),
				"pageNo", desc.pageNo,
				"frame", desc.frameNo,
				"pin", desc.pinCnt)
		}
		if err := desc.file.WritePage(desc.pageNo, bm.pool[i].Buf); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		desc.dirty = false
		bm.stats.Writebacks++
	}
	return firstErr
}
