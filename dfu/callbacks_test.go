package dfu_test

import (
	"testing"

	"github.com/usbarmory/go-dfu/dfu"
	"github.com/usbarmory/go-dfu/dfu/dfutest"
)

// TestUSBResetOverride exercises the optional Application.USBReset hook,
// which lets an embedder replace the default firmware-validity-driven
// bus-reset decision of spec §4.3 entirely.
func TestUSBResetOverride(t *testing.T) {
	app := dfutest.NewMemApplication()
	app.Valid = true // the default decision would pick AppIdle

	transport := &dfutest.MemTransport{}
	application := app.Build()

	var sawPort int
	application.USBReset = func(port int, state *dfu.State) {
		sawPort = port
		*state = dfu.DfuError
	}

	class := dfu.New(transport, application, dfu.Config{})
	class.BusReset(0) // AppDetach -> DfuIdle, USBReset not consulted yet
	class.BusReset(7)

	if sawPort != 7 {
		t.Fatalf("USBReset saw port %d, want 7", sawPort)
	}
	if class.State() != dfu.DfuError {
		t.Fatalf("state = %s, want DfuError (the override's decision, not the default)", class.State())
	}
}

// TestReqNonstandardHandled exercises the optional
// Application.ReqNonstandard hook for vendor requests outside the DFU
// class and standard request sets.
func TestReqNonstandardHandled(t *testing.T) {
	app := dfutest.NewMemApplication()
	transport := &dfutest.MemTransport{}
	application := app.Build()

	var sawPort int
	var sawSetup dfu.SetupPacket
	application.ReqNonstandard = func(port int, stage dfu.Stage, setup dfu.SetupPacket) bool {
		sawPort = port
		sawSetup = setup
		return true
	}

	class := dfu.New(transport, application, dfu.Config{Port: 3})
	class.BusReset(0)

	vendor := dfu.SetupPacket{RequestType: 0x41, Request: 0x55} // vendor, interface, host-to-device
	if err := class.Dispatch(dfu.StageSetup, vendor); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if sawPort != 3 {
		t.Fatalf("ReqNonstandard saw port %d, want 3", sawPort)
	}
	if sawSetup.Request != 0x55 {
		t.Fatalf("ReqNonstandard saw request %#x, want 0x55", sawSetup.Request)
	}
	if transport.Stalls != 0 {
		t.Fatalf("Stalls = %d, want 0: a handled non-standard request must not stall", transport.Stalls)
	}
}

// TestReqNonstandardUnhandledStalls confirms a non-standard request that
// ReqNonstandard declines stalls rather than silently succeeding.
func TestReqNonstandardUnhandledStalls(t *testing.T) {
	app := dfutest.NewMemApplication()
	transport := &dfutest.MemTransport{}
	application := app.Build()
	application.ReqNonstandard = func(port int, stage dfu.Stage, setup dfu.SetupPacket) bool {
		return false
	}

	class := dfu.New(transport, application, dfu.Config{})
	class.BusReset(0)

	vendor := dfu.SetupPacket{RequestType: 0x41, Request: 0x55}
	if err := class.Dispatch(dfu.StageSetup, vendor); err == nil {
		t.Fatal("expected an error for an unhandled non-standard request")
	}
	if transport.Stalls != 1 {
		t.Fatalf("Stalls = %d, want 1", transport.Stalls)
	}
}

// TestGetStatusDescIndex exercises the optional
// Application.GetStatusDescIndex hook, which supplies GETSTATUS's iString
// field (spec §4.9).
func TestGetStatusDescIndex(t *testing.T) {
	app := dfutest.NewMemApplication()
	transport := &dfutest.MemTransport{}
	application := app.Build()
	application.GetStatusDescIndex = func() uint8 { return 42 }

	class := dfu.New(transport, application, dfu.Config{})
	class.BusReset(0)

	if err := class.Dispatch(dfu.StageSetup, classReq(dfu.RequestGetStatus)); err != nil {
		t.Fatal(err)
	}

	resp := transport.LastTx()
	if len(resp) != 6 {
		t.Fatalf("len(resp) = %d, want 6", len(resp))
	}
	if resp[5] != 42 {
		t.Fatalf("iString = %d, want 42", resp[5])
	}
}
