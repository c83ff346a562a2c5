package bufmgr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/WillHofkamp/564p2/internal/storage"
)

// Debug prints the state of every frame plus the traffic counters.
func (bm *BufMgr) Debug(w io.Writer) {
	fmt.Fprintf(w, "=== BufMgr Debug ===\n")

	var valid, pinned, dirty int
	for i := range bm.descs {
		d := &bm.descs[i]
		if d.valid {
			valid++
			if d.pinCnt > 0 {
				pinned++
			}
			if d.dirty {
				dirty++
			}
		}
	}
	fmt.Fprintf(w, "frames=%d valid=%d pinned=%d dirty=%d clockHand=%d\n",
		bm.numBufs, valid, pinned, dirty, bm.clockHand)
	fmt.Fprintf(w, "hits=%d misses=%d evictions=%d writebacks=%d\n",
		bm.stats.Hits, bm.stats.Misses, bm.stats.Evictions, bm.stats.Writebacks)

	fmt.Fprintln(w, "\n-- Frames --")
	for i := range bm.descs {
		d := &bm.descs[i]
		if !d.valid {
			fmt.Fprintf(w, "[%d] free\n", d.frameNo)
			continue
		}
		pageNo := "?"
		if d.pageNo != storage.InvalidPageNumber {
			pageNo = fmt.Sprintf("%d", d.pageNo)
		}
		fmt.Fprintf(w, "[%d] file=%s page=%s pin=%d ref=%t dirty=%t\n",
			d.frameNo, d.file.Name(), pageNo, d.pinCnt, d.refbit, d.dirty)
	}
	fmt.Fprintln(w, "=== End BufMgr Debug ===")
}

func (bm *BufMgr) DebugString() string {
	var b bytes.Buffer
	bm.Debug(&b)
	return b.String()
}
