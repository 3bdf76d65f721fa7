package runtime_test

import (
	"testing"

	"github.com/usbarmory/go-dfu/dfu"
	"github.com/usbarmory/go-dfu/dfu/dfutest"
	"github.com/usbarmory/go-dfu/dfu/runtime"
)

func TestDetachInvokedOnce(t *testing.T) {
	transport := &dfutest.MemTransport{}
	calls := 0
	rt := runtime.New(transport, func() { calls++ })

	detach := dfu.SetupPacket{RequestType: 0x21, Request: 0x00}

	if err := rt.Dispatch(dfu.StageSetup, detach); err != nil {
		t.Fatal(err)
	}
	if err := rt.Dispatch(dfu.StageSetup, detach); err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Fatalf("detach called %d times, want 1", calls)
	}
	if transport.Acks != 2 {
		t.Fatalf("Acks = %d, want 2", transport.Acks)
	}
}

func TestGetStatusReportsAppIdle(t *testing.T) {
	transport := &dfutest.MemTransport{}
	rt := runtime.New(transport, func() {})

	req := dfu.SetupPacket{RequestType: 0x21, Request: 0x03}
	if err := rt.Dispatch(dfu.StageSetup, req); err != nil {
		t.Fatal(err)
	}

	resp := transport.LastTx()
	if len(resp) != 6 {
		t.Fatalf("len(resp) = %d, want 6", len(resp))
	}
	if dfu.State(resp[4]) != dfu.AppIdle {
		t.Fatalf("reported state = %s, want AppIdle", dfu.State(resp[4]))
	}
}

func TestUnknownRequestStalls(t *testing.T) {
	transport := &dfutest.MemTransport{}
	rt := runtime.New(transport, func() {})

	req := dfu.SetupPacket{RequestType: 0x21, Request: 0x7f}
	rt.Dispatch(dfu.StageSetup, req)

	if transport.Stalls != 1 {
		t.Fatalf("Stalls = %d, want 1", transport.Stalls)
	}
}
