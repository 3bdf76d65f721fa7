package dfu

// State represents a DFU interface state (DFU 1.1 §6.1.2, Table 6.2).
type State uint8

// DFU states, DFU 1.1 §6.1.2.
const (
	AppIdle State = iota
	AppDetach
	DfuIdle
	DfuDnloadSync
	DfuDnbusy
	DfuDnloadIdle
	DfuManifestSync
	DfuManifest
	DfuManifestWaitReset
	DfuUploadIdle
	DfuError
)

var stateNames = map[State]string{
	AppIdle:              "appIDLE",
	AppDetach:            "appDETACH",
	DfuIdle:              "dfuIDLE",
	DfuDnloadSync:        "dfuDNLOAD-SYNC",
	DfuDnbusy:            "dfuDNBUSY",
	DfuDnloadIdle:        "dfuDNLOAD-IDLE",
	DfuManifestSync:      "dfuMANIFEST-SYNC",
	DfuManifest:          "dfuMANIFEST",
	DfuManifestWaitReset: "dfuMANIFEST-WAIT-RESET",
	DfuUploadIdle:        "dfuUPLOAD-IDLE",
	DfuError:             "dfuERROR",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "dfuUNKNOWN"
}

// Status represents a DFU status code (DFU 1.1 §6.1.2, Table 6.2).
type Status uint8

// DFU status codes, DFU 1.1 §6.1.2.
const (
	StatusOK Status = iota
	StatusErrTarget
	StatusErrFile
	StatusErrWrite
	StatusErrErase
	StatusErrCheckErased
	StatusErrProg
	StatusErrVerify
	StatusErrAddress
	StatusErrNotDone
	StatusErrFirmware
	StatusErrVendor
	StatusErrUsbr
	StatusErrPor
	StatusErrUnknown
	StatusErrStalledPkt
)

var statusNames = map[Status]string{
	StatusOK:             "OK",
	StatusErrTarget:      "errTARGET",
	StatusErrFile:        "errFILE",
	StatusErrWrite:       "errWRITE",
	StatusErrErase:       "errERASE",
	StatusErrCheckErased: "errCHECK_ERASED",
	StatusErrProg:        "errPROG",
	StatusErrVerify:      "errVERIFY",
	StatusErrAddress:     "errADDRESS",
	StatusErrNotDone:     "errNOTDONE",
	StatusErrFirmware:    "errFIRMWARE",
	StatusErrVendor:      "errVENDOR",
	StatusErrUsbr:        "errUSBR",
	StatusErrPor:         "errPOR",
	StatusErrUnknown:     "errUNKNOWN",
	StatusErrStalledPkt:  "errSTALLEDPKT",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "errUNKNOWN"
}

// Attributes is a bitmask of device capabilities reported in the DFU
// functional descriptor (DFU 1.1 §4.1.3, bmAttributes).
type Attributes uint8

// DFU functional descriptor attribute bits, DFU 1.1 §4.1.3.
const (
	AttrWillDetach            Attributes = 1 << 3
	AttrManifestationTolerant Attributes = 1 << 2
	AttrCanUpload             Attributes = 1 << 1
	AttrCanDownload           Attributes = 1 << 0
)

// CanDownload reports whether the device supports DFU_DNLOAD.
func (a Attributes) CanDownload() bool { return a&AttrCanDownload != 0 }

// CanUpload reports whether the device supports DFU_UPLOAD.
func (a Attributes) CanUpload() bool { return a&AttrCanUpload != 0 }

// ManifestationTolerant reports whether the device can continue to answer
// USB requests during and after manifestation without a bus reset.
func (a Attributes) ManifestationTolerant() bool { return a&AttrManifestationTolerant != 0 }

// WillDetach reports whether the device generates its own DFU_DETACH
// equivalent (the device initiates the bus reset, rather than requiring
// the host to do so after a DETACH request).
func (a Attributes) WillDetach() bool { return a&AttrWillDetach != 0 }

// Request identifies a DFU class-specific request code (DFU 1.1 §3.1,
// Table 3.1), recipient = interface.
type Request uint8

// DFU class-specific request codes, DFU 1.1 §3.1.
const (
	RequestDetach Request = iota
	RequestDnload
	RequestUpload
	RequestGetStatus
	RequestClrStatus
	RequestGetState
	RequestAbort
)

var requestNames = map[Request]string{
	RequestDetach:    "DFU_DETACH",
	RequestDnload:    "DFU_DNLOAD",
	RequestUpload:    "DFU_UPLOAD",
	RequestGetStatus: "DFU_GETSTATUS",
	RequestClrStatus: "DFU_CLRSTATUS",
	RequestGetState:  "DFU_GETSTATE",
	RequestAbort:     "DFU_ABORT",
}

// String implements fmt.Stringer.
func (r Request) String() string {
	if name, ok := requestNames[r]; ok {
		return name
	}
	return "DFU_UNKNOWN"
}

// PollTimeout is a host-visible poll delay, DFU 1.1 §6.1.2 bwPollTimeout
// (3 bytes, little endian, milliseconds).
type PollTimeout [3]byte

// Milliseconds returns the poll timeout as a plain integer.
func (p PollTimeout) Milliseconds() uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16
}
