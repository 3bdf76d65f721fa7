package dfu_test

import (
	"testing"

	"github.com/usbarmory/go-dfu/dfu"
	"github.com/usbarmory/go-dfu/dfu/dfutest"
)

// TestPollTimeoutExpiredFromDnbusy exercises spec §4.8's DFU_DNBUSY row and
// closes invariant I3's exit condition: the poll timer, not a request,
// moves DFU_DNBUSY back to DFU_DNLOAD_SYNC, and the block transfer must
// already be finished by then, so the next GETSTATUS lands in
// DFU_DNLOAD_IDLE rather than bouncing straight back to DFU_DNBUSY.
func TestPollTimeoutExpiredFromDnbusy(t *testing.T) {
	app := dfutest.NewMemApplication()
	class, transport := newClass(t, app)

	transport.RxData = [][]byte{[]byte("x")}
	mustDispatch(t, class, dfu.StageSetup, dnload(0, 1))
	mustDispatch(t, class, dfu.StageSetup, classReq(dfu.RequestGetStatus))
	if class.State() != dfu.DfuDnbusy {
		t.Fatalf("state = %s, want DfuDnbusy", class.State())
	}

	// The data stage completes the block transfer while the device is
	// busy programming it; blkTransferInProc clears, but the state
	// stays DfuDnbusy until the poll timer fires.
	mustDispatch(t, class, dfu.StageData, dfu.SetupPacket{})
	if class.State() != dfu.DfuDnbusy {
		t.Fatalf("state = %s, want DfuDnbusy (unchanged by the data stage)", class.State())
	}

	class.PollTimeoutExpired()
	if class.State() != dfu.DfuDnloadSync {
		t.Fatalf("state = %s, want DfuDnloadSync", class.State())
	}

	mustDispatch(t, class, dfu.StageSetup, classReq(dfu.RequestGetStatus))
	if class.State() != dfu.DfuDnloadIdle {
		t.Fatalf("state = %s, want DfuDnloadIdle", class.State())
	}
}

// TestPollTimeoutExpiredNoOpOutsideDnbusyAndManifest confirms states not
// named in spec §4.8 ignore the poll timer.
func TestPollTimeoutExpiredNoOpOutsideDnbusyAndManifest(t *testing.T) {
	app := dfutest.NewMemApplication()
	class, _ := newClass(t, app)

	class.PollTimeoutExpired()
	if class.State() != dfu.DfuIdle {
		t.Fatalf("state = %s, want DfuIdle unchanged", class.State())
	}
}
