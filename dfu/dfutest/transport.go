// Package dfutest provides in-memory fakes for the dfu package's narrow
// collaborator interfaces (Transport, Application), in the style of the
// teacher's own hardware fakes used for host-side testing — there is no
// single file in the retrieval pack that does this, so the shape follows
// the stdlib-testing idiom of kvm/sev/msg_test.go: plain structs, no
// mocking library.
package dfutest

import "errors"

// ErrStalled is a sentinel for tests that want to stand for a stalled
// transfer without matching the exact StallError produced by the core.
// MemTransport itself never returns it: its Tx and Rx always succeed.
var ErrStalled = errors.New("dfutest: transport stalled")

// MemTransport is an in-memory dfu.Transport recording every call for
// inspection by a test.
type MemTransport struct {
	// TxCalls records each byte slice passed to Tx, most recent last.
	TxCalls [][]byte
	// Acks counts calls to Ack.
	Acks int
	// Stalls counts calls to Stall.
	Stalls int

	// RxData is consumed by Rx, one Rx call at a time; each entry is
	// copied (truncated or zero-padded as needed) into the caller's
	// buffer and the count of bytes it actually carried is returned.
	RxData [][]byte
	rxNext int
}

// Tx implements dfu.Transport.
func (m *MemTransport) Tx(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.TxCalls = append(m.TxCalls, cp)
	return nil
}

// Rx implements dfu.Transport. It plays back RxData in order; once
// exhausted, it zero-fills buf and reports a full-length receive.
func (m *MemTransport) Rx(buf []byte) (int, error) {
	if m.rxNext >= len(m.RxData) {
		clear(buf)
		return len(buf), nil
	}
	data := m.RxData[m.rxNext]
	m.rxNext++
	n := copy(buf, data)
	clear(buf[n:])
	return n, nil
}

// Ack implements dfu.Transport.
func (m *MemTransport) Ack() error {
	m.Acks++
	return nil
}

// Stall implements dfu.Transport.
func (m *MemTransport) Stall() error {
	m.Stalls++
	return nil
}

// LastTx returns the most recent Tx payload, or nil if Tx was never
// called.
func (m *MemTransport) LastTx() []byte {
	if len(m.TxCalls) == 0 {
		return nil
	}
	return m.TxCalls[len(m.TxCalls)-1]
}
