// USB DFU 1.1 device class
// https://github.com/usbarmory/go-dfu
//
// Copyright (c) The go-dfu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package dfu implements the device-side state machine of the USB Device
// Firmware Upgrade class (DFU 1.1), operating in DFU mode.
//
// The package mediates, through a narrow Transport interface, the transfer
// of a firmware image from a USB host to an Application collaborator that
// owns flash programming and image validation. It does not itself perform
// USB endpoint I/O, flash writes or poll-timeout timekeeping: those are
// supplied by the embedder through Transport, Application and the
// PollTimeoutExpired/BusReset entry points.
//
// A single Class instance represents one DFU interface, as DFU mode is
// inherently a singleton at the interface level (one reprogramming
// interface per device).
package dfu
