/*
Copyright (c) 2020-2026 Network Device Adapter Contributors

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/spf13/afero"

	"github.com/retrobus/netadapter/bus"
	"github.com/retrobus/netadapter/device"
	"github.com/retrobus/netadapter/protocol"
	"github.com/retrobus/netadapter/remotefs"
	"github.com/retrobus/netadapter/version"
)

// pollInterval bounds how long a read can block before serve's main
// loop comes back around to run Poll, matching spec §4.5's "poll
// routine invoked by the outer main loop" contract.
const pollInterval = 10 * time.Millisecond

var (
	ver    bool
	listen string

	deviceUnit int
	timerRate  time.Duration

	driveClientID     string
	driveClientSecret string
	driveAccessCode   string
	cacheDir          string
)

func init() {
	flag.BoolVar(&ver, "v", false, "Print version information")
	flag.StringVar(&listen, "listen", ":9997", "Bus transport listen address")

	flag.IntVar(&deviceUnit, "unit", 1, "N: device unit number (1-8)")
	flag.DurationVar(&timerRate, "timer-rate", 100*time.Millisecond, "Interrupt rate limiter interval (parsed but not passed to the processor, which starts at 100ms)")

	flag.StringVar(&driveClientID, "drive-client-id", "", "Google Drive OAuth client id")
	flag.StringVar(&driveClientSecret, "drive-client-secret", "", "Google Drive OAuth client secret")
	flag.StringVar(&driveAccessCode, "drive-access-code", "", "Google Drive OAuth authorization code")
	flag.StringVar(&cacheDir, "cache-dir", "/tmp/netadapter-cache", "Local content cache root (the directory cache is kept in memory)")
}

func main() {
	flag.Parse()

	if ver {
		fmt.Printf("%s (%s)\n", version.Current.FullString(), version.Hash)
		return
	}

	printLogo()

	if driveClientID != "" && driveClientSecret != "" {
		startRemoteFS(context.Background())
	}

	reg := protocol.NewDefaultRegistry()
	proc := device.NewProcessor(byte(deviceUnit), reg)

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		log.Fatalf("netadapter: listen %s: %v", listen, err)
	}
	log.Printf("netadapter: listening on %s for unit %d", listen, deviceUnit)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("netadapter: accept: %v", err)
			continue
		}
		go serve(proc, bus.NewTCPBusIO(conn))
	}
}

// serve runs the main loop for one bus connection: dispatch every
// frame the host sends, polling the interrupt rate limiter between
// frames the way the teacher's peripheral Step methods are driven by
// an outer loop. Poll and Handle both touch Processor state with no
// locking of their own, so both must run on this one goroutine; a
// read deadline stands in for the idle tick a real outer loop would
// get for free.
func serve(proc *device.Processor, b *bus.TCPBusIO) {
	defer b.Close()

	for {
		if err := b.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			log.Printf("netadapter: set read deadline: %v", err)
			return
		}

		frame, err := b.RecvFrame()
		if err != nil {
			if isTimeout(err) {
				proc.Poll(b)
				continue
			}
			log.Printf("netadapter: connection closed: %v", err)
			return
		}

		// A frame is in flight: clear the deadline so a slow payload
		// transfer inside Handle isn't mistaken for an idle tick.
		if err := b.SetReadDeadline(time.Time{}); err != nil {
			log.Printf("netadapter: clear read deadline: %v", err)
			return
		}

		if err := proc.Handle(b, frame); err != nil {
			log.Printf("netadapter: handle frame: %v", err)
			return
		}
	}
}

// isTimeout reports whether err (possibly wrapped) originated from a
// connection deadline expiring rather than a real I/O failure.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// startRemoteFS performs the one-time OAuth exchange for the Google
// Drive-backed remote filesystem, purely to surface configuration
// errors at boot. The resulting session is not yet wired onto the bus
// command dispatch; C7 is exercised through its own test suite.
func startRemoteFS(ctx context.Context) {
	cache := remotefs.NewFileCache(afero.NewOsFs(), cacheDir)
	cfg := remotefs.Config{
		ClientID:     driveClientID,
		ClientSecret: driveClientSecret,
		AccessCode:   driveAccessCode,
	}
	if _, err := remotefs.Start(ctx, cfg, cache); err != nil {
		log.Printf("netadapter: remote filesystem not started: %v", err)
		return
	}
	log.Println("netadapter: remote filesystem ready")
}

func printLogo() {
	fmt.Print(logo)
	fmt.Println("v" + version.Current.String())
	fmt.Println(" ───────═════ " + version.Copyright + " ══════───────\n")
}

var logo = `
███╗   ██╗███████╗████████╗ █████╗ ██████╗  █████╗ ██████╗ ████████╗███████╗██████╗
████╗  ██║██╔════╝╚══██╔══╝██╔══██╗██╔══██╗██╔══██╗██╔══██╗╚══██╔══╝██╔════╝██╔══██╗
██╔██╗ ██║█████╗     ██║   ███████║██║  ██║███████║██║  ██║   ██║   █████╗  ██████╔╝
██║╚██╗██║██╔══╝     ██║   ██╔══██║██║  ██║██╔══██║██║  ██║   ██║   ██╔══╝  ██╔══██╗
██║ ╚████║███████╗   ██║   ██║  ██║██████╔╝██║  ██║██████╔╝   ██║   ███████╗██║  ██║
╚═╝  ╚═══╝╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═════╝ ╚═╝  ╚═╝╚═════╝    ╚═╝   ╚══════╝╚═╝  ╚═╝`
