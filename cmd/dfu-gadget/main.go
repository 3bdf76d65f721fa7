// Command dfu-gadget wires package dfu to an in-memory transport and
// application, demonstrating the end-to-end download/upload scenarios of
// spec.md §8 without requiring real USB silicon (the transport and flash
// are both external collaborators per this module's design, see §1
// Non-goals).
//
// It follows the teacher's example/usb_zero.go wiring style: a plain main
// package, log.SetFlags/log.SetOutput for verbosity control, and an
// optional debugcharts/pprof diagnostics server (example/web_server.go's
// setupStaticWebAssets, minus the gvisor netstack this module has no use
// for).
package main

import (
	"encoding/hex"
	"flag"
	"io"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	_ "github.com/mkevac/debugcharts"
	"golang.org/x/crypto/blake2b"

	"github.com/usbarmory/go-dfu/dfu"
	"github.com/usbarmory/go-dfu/dfu/dfutest"
	"github.com/usbarmory/go-dfu/dfu/runtime"
)

var (
	verbose  = flag.Bool("v", false, "verbose state-machine logging")
	diagAddr = flag.String("diag", "", "address to serve /debug/charts and /debug/pprof on, e.g. :6060")
	wantSum  = flag.String("sum", "", "expected BLAKE2b-256 checksum (hex) of the downloaded image; empty accepts any image")
	serve    = flag.Bool("serve", false, "block forever after the demonstration instead of exiting (useful alongside -diag)")
)

func main() {
	flag.Parse()

	out := io.Writer(os.Stdout)
	if !*verbose {
		out = io.Discard
	}
	logger := log.New(out, "dfu: ", log.LstdFlags)

	if *diagAddr != "" {
		go func() {
			log.Printf("diagnostics listening on %s (/debug/charts, /debug/pprof)", *diagAddr)
			log.Println(http.ListenAndServe(*diagAddr, nil))
		}()
	}

	transport := &dfutest.MemTransport{}
	app := dfutest.NewMemApplication()

	if *wantSum != "" {
		app.Validator = checksumValidator(*wantSum)
	}

	class := dfu.New(transport, app.Build(), dfu.Config{Logger: logger})

	rt := runtime.New(transport, func() {
		log.Println("dfu-gadget: run-time DETACH received, re-enumerating in DFU mode")
	})

	runDemo(class, transport, app)

	log.Printf("dfu-gadget ready: class=%p runtime=%p", class, rt)

	if *serve {
		select {}
	}
}

// runDemo drives the download, upload and abort scenarios of spec.md §8
// end to end against the in-memory transport and application, logging
// each state transition along the way.
func runDemo(class *dfu.Class, transport *dfutest.MemTransport, app *dfutest.MemApplication) {
	log.Println("--- scenario: bus reset into DFU mode ---")
	class.BusReset(0)
	log.Printf("state: %s", class.State())

	log.Println("--- scenario: download, tolerant manifestation ---")
	block := []byte("firmware-image-block-0")
	transport.RxData = append(transport.RxData, block)

	dispatch(class, dfu.StageSetup, dnload(0, uint16(len(block))))
	dispatch(class, dfu.StageData, dfu.SetupPacket{})
	log.Printf("state: %s, flash: %q", class.State(), app.Flash)

	dispatch(class, dfu.StageSetup, classRequest(dfu.RequestGetStatus))
	log.Printf("state: %s", class.State())

	app.Done = true
	dispatch(class, dfu.StageSetup, dnload(0, 0)) // zero-length DNLOAD signals end of image
	log.Printf("state: %s", class.State())

	dispatch(class, dfu.StageSetup, classRequest(dfu.RequestGetStatus))
	log.Printf("state: %s (manifestation complete)", class.State())

	log.Println("--- scenario: upload ---")
	app.UploadSource = []byte("uploaded-firmware-bytes")
	// Request more than UploadSource holds so the reply is short and
	// ends the upload session back in DfuIdle (spec §4.7), leaving the
	// class ready for the next scenario below.
	dispatch(class, dfu.StageSetup, upload(0, uint16(len(app.UploadSource))+8))
	log.Printf("state: %s, uploaded: %q", class.State(), transport.LastTx())

	log.Println("--- scenario: abort mid-download ---")
	transport.RxData = append(transport.RxData, []byte("x"))
	dispatch(class, dfu.StageSetup, dnload(1, 1))
	dispatch(class, dfu.StageData, dfu.SetupPacket{})
	dispatch(class, dfu.StageSetup, classRequest(dfu.RequestGetStatus))
	dispatch(class, dfu.StageSetup, classRequest(dfu.RequestAbort))
	log.Printf("state: %s (aborted back to DfuIdle)", class.State())
}

// requestTypeClassInterface is bmRequestType for a class request addressed
// to the DFU interface (USB 2.0 §9.3, Table 9-2): type=class, recipient=
// interface. The core does not inspect the direction bit (D7), so one
// value serves both host-to-device and device-to-host requests here.
const requestTypeClassInterface = 0x21

func dnload(block, length uint16) dfu.SetupPacket {
	return dfu.SetupPacket{RequestType: requestTypeClassInterface, Request: uint8(dfu.RequestDnload), Value: block, Length: length}
}

func upload(block, length uint16) dfu.SetupPacket {
	return dfu.SetupPacket{RequestType: requestTypeClassInterface, Request: uint8(dfu.RequestUpload), Value: block, Length: length}
}

func classRequest(req dfu.Request) dfu.SetupPacket {
	return dfu.SetupPacket{RequestType: requestTypeClassInterface, Request: uint8(req)}
}

func dispatch(class *dfu.Class, stage dfu.Stage, setup dfu.SetupPacket) {
	if err := class.Dispatch(stage, setup); err != nil {
		log.Printf("dispatch %s (stage %d): %v", dfu.Request(setup.Request), stage, err)
	}
}

// checksumValidator computes a BLAKE2b-256 digest of the downloaded image
// and compares it against wantHex, delegating integrity checking to the
// application as this module's core never hashes anything itself.
func checksumValidator(wantHex string) func([]byte) bool {
	return func(image []byte) bool {
		digest := blake2b.Sum256(image)
		return hex.EncodeToString(digest[:]) == wantHex
	}
}
