package bufmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// residentFrame returns the frame currently holding (f, pageNo).
func residentFrame(t *testing.T, bm *BufMgr, f File, pageNo uint32) uint32 {
	t.Helper()

	frameNo, ok := bm.table.lookup(f, pageNo)
	require.True(t, ok, "page %d not resident", pageNo)
	return frameNo
}

func TestClock_HandStartsBeforeFrameZero(t *testing.T) {
	bm, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), bm.clockHand)

	// Frames are handed out in order while the pool warms up.
	bm2, f := newTestMgr(t, 3, 3)
	for pageNo := uint32(0); pageNo < 3; pageNo++ {
		_, err := bm2.ReadPage(f, pageNo)
		require.NoError(t, err)
		assert.Equal(t, pageNo, residentFrame(t, bm2, f, pageNo))
	}
}

// Pages loaded and unpinned in order keep their refbits; the sweep clears
// them all and then evicts in load order, one page per subsequent miss.
func TestClock_FairRotation(t *testing.T) {
	bm, f := newTestMgr(t, 3, 6)

	for pageNo := uint32(0); pageNo < 3; pageNo++ {
		_, err := bm.ReadPage(f, pageNo)
		require.NoError(t, err)
		require.NoError(t, bm.UnPinPage(f, pageNo, false))
	}

	evictionOrder := []uint32{0, 1, 2}
	for i, newPage := range []uint32{3, 4, 5} {
		_, err := bm.ReadPage(f, newPage)
		require.NoError(t, err)
		require.NoError(t, bm.UnPinPage(f, newPage, false))

		_, stillResident := bm.table.lookup(f, evictionOrder[i])
		assert.False(t, stillResident, "expected page %d to be the %d-th victim", evictionOrder[i], i+1)
	}
}

func TestClock_SecondChanceSparesReferenced(t *testing.T) {
	bm, f := newTestMgr(t, 2, 3)

	_, err := bm.ReadPage(f, 0)
	require.NoError(t, err)
	require.NoError(t, bm.UnPinPage(f, 0, false))

	_, err = bm.ReadPage(f, 1)
	require.NoError(t, err)
	require.NoError(t, bm.UnPinPage(f, 1, false))

	// Page 0 keeps a fresh refbit while page 1's is aged out by hand, so
	// page 1 is the victim even though page 0 sits earlier in the sweep
	// order.
	_, err = bm.ReadPage(f, 0)
	require.NoError(t, err)
	require.NoError(t, bm.UnPinPage(f, 0, false))

	frame0 := residentFrame(t, bm, f, 0)
	bm.descs[frame0].refbit = true // freshened
	frame1 := residentFrame(t, bm, f, 1)
	bm.descs[frame1].refbit = false // aged out

	_, err = bm.ReadPage(f, 2)
	require.NoError(t, err)

	_, ok := bm.table.lookup(f, 0)
	assert.True(t, ok, "referenced page must survive the sweep")
	_, ok = bm.table.lookup(f, 1)
	assert.False(t, ok, "unreferenced page must be the victim")
}

func TestClock_SkipsPinnedFrames(t *testing.T) {
	bm, f := newTestMgr(t, 3, 4)

	// Page 0 stays pinned for the whole test.
	_, err := bm.ReadPage(f, 0)
	require.NoError(t, err)

	for pageNo := uint32(1); pageNo < 3; pageNo++ {
		_, err := bm.ReadPage(f, pageNo)
		require.NoError(t, err)
		require.NoError(t, bm.UnPinPage(f, pageNo, false))
	}

	// Age every frame so the sweep reaches the pinned frame directly
	// instead of spending its budget clearing refbits.
	for i := range bm.descs {
		bm.descs[i].refbit = false
	}

	_, err = bm.ReadPage(f, 3)
	require.NoError(t, err)

	_, ok := bm.table.lookup(f, 0)
	assert.True(t, ok, "pinned page must never be evicted")
	assert.Equal(t, uint32(1), bm.descs[residentFrame(t, bm, f, 0)].pinCnt)
}

// allocFrame must survive a full refbit-clearing sweep and pick up a
// victim when it revisits the first frame of the sweep.
func TestClock_AllRefbitsSetStillFindsVictim(t *testing.T) {
	bm, f := newTestMgr(t, 3, 4)

	for pageNo := uint32(0); pageNo < 3; pageNo++ {
		_, err := bm.ReadPage(f, pageNo)
		require.NoError(t, err)
		require.NoError(t, bm.UnPinPage(f, pageNo, false))
	}
	for i := range bm.descs {
		require.True(t, bm.descs[i].refbit)
	}

	frameNo, err := bm.allocFrame()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), frameNo)
	assert.False(t, bm.descs[frameNo].valid, "chosen frame must be cleared")
}

func TestClock_AllPinnedFails(t *testing.T) {
	bm, f := newTestMgr(t, 2, 2)

	for pageNo := uint32(0); pageNo < 2; pageNo++ {
		_, err := bm.ReadPage(f, pageNo)
		require.NoError(t, err)
	}

	_, err := bm.allocFrame()
	require.ErrorIs(t, err, ErrBufferExceeded)

	// Both frames untouched.
	for pageNo := uint32(0); pageNo < 2; pageNo++ {
		_, ok := bm.table.lookup(f, pageNo)
		assert.True(t, ok)
	}
}
