package dfu_test

import (
	"testing"

	"github.com/usbarmory/go-dfu/dfu"
)

func TestFunctionalDescriptorBytes(t *testing.T) {
	d := &dfu.FunctionalDescriptor{
		Attributes:    dfu.AttrCanDownload | dfu.AttrCanUpload | dfu.AttrManifestationTolerant,
		DetachTimeOut: 255,
		TransferSize:  2048,
	}
	d.SetDefaults()

	b := d.Bytes()
	if len(b) != 9 {
		t.Fatalf("len(Bytes()) = %d, want 9", len(b))
	}
	if b[0] != 9 {
		t.Fatalf("bLength = %d, want 9", b[0])
	}
	if b[1] != 0x21 {
		t.Fatalf("bDescriptorType = %#x, want 0x21", b[1])
	}
	if b[2] != byte(d.Attributes) {
		t.Fatalf("bmAttributes = %#x, want %#x", b[2], byte(d.Attributes))
	}
	if b[7] != 0x10 || b[8] != 0x01 {
		t.Fatalf("bcdDFUVersion = %02x%02x, want 0110", b[8], b[7])
	}
}

// interfaceDescriptor builds a minimal 9-byte USB interface descriptor for
// Open's tests, USB 2.0 §9.6.5.
func interfaceDescriptor(subClass, protocol uint8) []byte {
	return []byte{9, 0x04, 0, 0, 0, 0, subClass, protocol, 0}
}

func TestOpenRecognizesDFUMode(t *testing.T) {
	d := interfaceDescriptor(0x01, 0x02)
	n := dfu.Open(d, len(d))
	if n != 9 {
		t.Fatalf("Open() = %d, want 9", n)
	}
}

// TestOpenRejectsRuntimeMode confirms that the run-time interface's
// protocol code is not mistaken for this package's own interface: the
// run-time interface is a distinct class instance (dfu/runtime), out of
// scope for this core (spec.md §1).
func TestOpenRejectsRuntimeMode(t *testing.T) {
	d := interfaceDescriptor(0x01, 0x01)
	if n := dfu.Open(d, len(d)); n != 0 {
		t.Fatalf("Open() = %d, want 0 for the run-time interface", n)
	}
}

func TestOpenRejectsOtherInterfaces(t *testing.T) {
	d := interfaceDescriptor(0x08, 0x06) // USB mass storage, unrelated
	if n := dfu.Open(d, len(d)); n != 0 {
		t.Fatalf("Open() = %d, want 0 for a non-DFU interface", n)
	}
}

func TestOpenSkipsFunctionalDescriptor(t *testing.T) {
	iface := interfaceDescriptor(0x01, 0x02)
	fd := &dfu.FunctionalDescriptor{Attributes: dfu.AttrCanDownload, TransferSize: 64}
	fd.SetDefaults()

	full := append(append([]byte{}, iface...), fd.Bytes()...)

	n := dfu.Open(full, len(full))
	if n != 18 {
		t.Fatalf("Open() = %d, want 18 (interface + functional descriptor)", n)
	}
}
