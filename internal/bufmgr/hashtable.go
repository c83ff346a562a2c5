package bufmgr

import "fmt"

// indexEntry is one chain link of a pageIndex bucket.
type indexEntry struct {
	file    File
	pageNo  uint32
	frameNo uint32
	next    *indexEntry
}

// pageIndex maps (file, pageNo) -> frameNo with chained buckets. It is
// sized independently from the pool so probe chains stay short, and file
// identity is pointer identity (interface equality), never file contents.
type pageIndex struct {
	buckets []*indexEntry

	// fileIDs memoizes a small integer per distinct file so the bucket
	// hash can fold file identity with the page number.
	fileIDs    map[File]uint32
	nextFileID uint32
}

// newPageIndex sizes the table at ⌊1.2·numBufs⌋+1 buckets, roughly 1.2x
// the pool.
func newPageIndex(numBufs uint32) *pageIndex {
	htsize := ((int(float64(numBufs)*1.2) * 2) / 2) + 1
	return &pageIndex{
		buckets: make([]*indexEntry, htsize),
		fileIDs: make(map[File]uint32),
	}
}

func (t *pageIndex) bucket(file File, pageNo uint32) int {
	id, ok := t.fileIDs[file]
	if !ok {
		id = t.nextFileID
		t.nextFileID++
		t.fileIDs[file] = id
	}
	return int((uint64(id)*31 + uint64(pageNo)) % uint64(len(t.buckets)))
}

// insert adds a mapping. A duplicate key means the pool's residency
// invariant was already broken, so this is reported as an error rather
// than silently overwritten.
func (t *pageIndex) insert(file File, pageNo uint32, frameNo uint32) error {
	b := t.bucket(file, pageNo)
	for e := t.buckets[b]; e != nil; e = e.next {
		if e.file == file && e.pageNo == pageNo {
			return fmt.Errorf("bufmgr: page %d of %s already hashed to frame %d",
				pageNo, file.Name(), e.frameNo)
		}
	}
	t.buckets[b] = &indexEntry{file: file, pageNo: pageNo, frameNo: frameNo, next: t.buckets[b]}
	return nil
}

// lookup returns the frame holding (file, pageNo). Absence is an ordinary
// result, not an error.
func (t *pageIndex) lookup(file File, pageNo uint32) (uint32, bool) {
	b := t.bucket(file, pageNo)
	for e := t.buckets[b]; e != nil; e = e.next {
		if e.file == file && e.pageNo == pageNo {
			return e.frameNo, true
		}
	}
	return 0, false
}

// remove drops a mapping, reporting whether it was present.
func (t *pageIndex) remove(file File, pageNo uint32) bool {
	b := t.bucket(file, pageNo)
	prev := &t.buckets[b]
	for e := t.buckets[b]; e != nil; e = e.next {
		if e.file == file && e.pageNo == pageNo {
			*prev = e.next
			return true
		}
		prev = &e.next
	}
	return false
}
