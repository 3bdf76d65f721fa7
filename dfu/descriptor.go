package dfu

import (
	"bytes"
	"encoding/binary"
)

// DFU Functional Descriptor constants, DFU 1.1 §4.1.3.
const (
	functionalDescriptorLength  = 9
	descriptorTypeDFUFunctional = 0x21
	bcdDFU11                    = 0x0110

	// Application-specific class, subclass and protocol codes used to
	// recognize the DFU-mode interface during enumeration (DFU 1.1
	// §4.1.2, Table 4.1). The run-time protocol code (0x01) belongs to
	// the separate run-time interface (dfu/runtime), a distinct class
	// instance outside this package's scope (spec.md §1); Open must not
	// also claim it.
	interfaceSubClassDFU = 0x01
	interfaceProtocolDFU = 0x02
)

// FunctionalDescriptor implements the DFU Functional Descriptor, DFU 1.1
// §4.1.3, Table 4.2. It follows the teacher's descriptor idiom of a plain
// struct with SetDefaults and Bytes (see descriptor_cdc.go's
// CDCHeaderDescriptor).
type FunctionalDescriptor struct {
	Length         uint8
	DescriptorType uint8
	Attributes     Attributes
	DetachTimeOut  uint16
	TransferSize   uint16
	DFUVersion     uint16
}

// SetDefaults initializes the fixed fields of the DFU Functional
// Descriptor. Attributes, DetachTimeOut and TransferSize are caller
// supplied.
func (d *FunctionalDescriptor) SetDefaults() {
	d.Length = functionalDescriptorLength
	d.DescriptorType = descriptorTypeDFUFunctional
	d.DFUVersion = bcdDFU11
}

// Bytes converts the descriptor to its wire format.
func (d *FunctionalDescriptor) Bytes() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, d)
	return buf.Bytes()
}

// Open implements spec §4.2: validates that an interface descriptor is the
// DFU-mode interface (bInterfaceSubClass/bInterfaceProtocol) and skips past
// an optional trailing DFU functional descriptor, returning the number of
// bytes consumed from descriptor. Returns 0 ("not mine") on a subclass or
// protocol mismatch.
//
// descriptor starts at the interface descriptor itself; remaining bounds
// how far into the surrounding configuration descriptor this interface may
// look, mirroring the teacher's *usb.ConfigurationDescriptor walk, which
// hands each class driver a remaining-length budget rather than the whole
// buffer.
func Open(descriptor []byte, remaining int) int {
	const (
		interfaceDescriptorLength = 9
		idxSubClass               = 6
		idxProtocol               = 7
	)

	if len(descriptor) < interfaceDescriptorLength || remaining < interfaceDescriptorLength {
		return 0
	}

	subClass := descriptor[idxSubClass]
	protocol := descriptor[idxProtocol]

	if subClass != interfaceSubClassDFU {
		return 0
	}
	if protocol != interfaceProtocolDFU {
		return 0
	}

	consumed := interfaceDescriptorLength

	if remaining >= consumed+functionalDescriptorLength &&
		len(descriptor) >= consumed+2 &&
		descriptor[consumed+1] == descriptorTypeDFUFunctional {
		consumed += functionalDescriptorLength
	}

	return consumed
}
