package bufmgr

import "log/slog"

// advanceClock moves the hand one frame forward, wrapping at the pool size.
func (bm *BufMgr) advanceClock() {
	bm.clockHand = (bm.clockHand + 1) % bm.numBufs
}

// allocFrame chooses a frame for a new page using the CLOCK algorithm.
//
// Each step advances the hand and inspects the frame under it:
//   - invalid frame: take it immediately
//   - refbit set: clear it and move on (second chance)
//   - pinned: skip
//   - valid, unreferenced, unpinned: evict it (write back first if dirty)
//
// The scan runs at most numBufs+1 steps: one full sweep, which clears the
// refbits it passes, plus a revisit of the first frame it inspected. If no
// frame is chosen within those steps it returns ErrBufferExceeded. That
// happens when every frame is pinned, and also when the first frame is
// pinned and every unpinned frame still had its refbit set when the sweep
// reached it.
//
// The chosen frame's descriptor is cleared; the caller performs the Set
// after loading the new page.
func (bm *BufMgr) allocFrame() (uint32, error) {
	for scanned := uint32(0); scanned <= bm.numBufs; scanned++ {
		bm.advanceClock()
		desc := &bm.descs[bm.clockHand]

		if !desc.valid {
			frameNo := desc.frameNo
			desc.Clear()
			return frameNo, nil
		}
		if desc.refbit {
			desc.refbit = false
			continue
		}
		if desc.pinCnt > 0 {
			continue
		}

		// Victim found. Write back before the mapping is dropped so a
		// failed write leaves the frame resident and consistent.
		if desc.dirty {
			if err := desc.file.WritePage(desc.pageNo, bm.pool[desc.frameNo].Buf); err != nil {
				return 0, err
			}
			desc.dirty = false
			bm.stats.Writebacks++
		}

		slog.Debug(logDebugPrefix+"evicting page",
			"file", desc.file.Name(),
			"pageNo", desc.pageNo,
			"frame", desc.frameNo)

		bm.table.remove(desc.file, desc.pageNo)
		bm.stats.Evictions++

		frameNo := desc.frameNo
		desc.Clear()
		return frameNo, nil
	}

	return 0, ErrBufferExceeded
}
