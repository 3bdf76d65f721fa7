package dfutest

import (
	"sync"
	"time"

	"github.com/usbarmory/go-dfu/dfu"
)

// MemApplication is an in-memory dfu.Application backing the downloaded
// image with a plain byte slice instead of flash. It supports a
// synchronous poll-timer mode (PollTimeoutExpired must be driven by the
// test) or an asynchronous mode backed by a real time.Timer, exercising
// the same poll-timeout race the production core must tolerate.
type MemApplication struct {
	mu sync.Mutex

	// Capabilities is returned by InitAttrs.
	Capabilities dfu.Attributes

	// Flash accumulates every block handed to ReqDnloadData, in receipt
	// order (this fake does not model addressing).
	Flash []byte

	// UploadSource is read from by ReqUploadData.
	UploadSource []byte
	uploadOffset int

	// Valid controls FirmwareValidCheck when Validator is nil.
	Valid bool

	// Validator, when set, overrides Valid: FirmwareValidCheck calls it
	// with the accumulated Flash contents instead.
	Validator func(image []byte) bool

	// Done controls DeviceDataDoneCheck.
	Done bool

	// Async, when true, arms a real time.Timer in StartPollTimeout that
	// invokes OnExpire (normally Class.PollTimeoutExpired) on its own
	// goroutine. When false, StartPollTimeout only records the timeout
	// and the test is expected to call OnExpire itself.
	Async bool
	// OnExpire is invoked when the armed poll timeout elapses. Set by
	// the test before exercising the application, typically to
	// class.PollTimeoutExpired.
	OnExpire func()

	timer *time.Timer

	RebootCount int
	AbortCount  int

	LastPollTimeout dfu.PollTimeout
}

// NewMemApplication returns a MemApplication with download, upload and
// manifestation tolerance enabled and the image already considered valid,
// a reasonable default
// for happy-path tests.
func NewMemApplication() *MemApplication {
	return &MemApplication{
		Capabilities: dfu.AttrCanDownload | dfu.AttrCanUpload | dfu.AttrManifestationTolerant,
		Valid:        true,
	}
}

// Build wires the fake's methods into a dfu.Application.
func (m *MemApplication) Build() *dfu.Application {
	return &dfu.Application{
		InitAttrs:           m.initAttrs,
		FirmwareValidCheck:  m.firmwareValidCheck,
		RebootToRT:          m.rebootToRT,
		ReqDnloadData:       m.reqDnloadData,
		ReqUploadData:       m.reqUploadData,
		DeviceDataDoneCheck: m.deviceDataDoneCheck,
		StartPollTimeout:    m.startPollTimeout,
		Abort:               m.abort,
	}
}

func (m *MemApplication) initAttrs() dfu.Attributes {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Capabilities
}

func (m *MemApplication) firmwareValidCheck() bool {
	m.mu.Lock()
	validator := m.Validator
	image := m.Flash
	valid := m.Valid
	m.mu.Unlock()

	if validator != nil {
		return validator(image)
	}
	return valid
}

func (m *MemApplication) rebootToRT() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RebootCount++
}

func (m *MemApplication) reqDnloadData(_ uint16, buf []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(buf))
	copy(cp, buf)
	m.Flash = append(m.Flash, cp...)
}

func (m *MemApplication) reqUploadData(_ uint16, buf []byte) uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadOffset >= len(m.UploadSource) {
		return 0
	}
	n := copy(buf, m.UploadSource[m.uploadOffset:])
	m.uploadOffset += n
	return uint16(n)
}

func (m *MemApplication) deviceDataDoneCheck() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Done
}

func (m *MemApplication) startPollTimeout(timeout dfu.PollTimeout) {
	m.mu.Lock()
	m.LastPollTimeout = timeout
	async := m.Async
	onExpire := m.OnExpire
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	if !async || onExpire == nil {
		return
	}

	d := time.Duration(timeout.Milliseconds()) * time.Millisecond
	m.mu.Lock()
	m.timer = time.AfterFunc(d, onExpire)
	m.mu.Unlock()
}

func (m *MemApplication) abort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AbortCount++
}
