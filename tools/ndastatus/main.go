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

// Command ndastatus is a live terminal dashboard of adapter state:
// the PROCEED line and the last signal sent on the bus. It does not
// show connected/error status or the active channel mode. It drives a
// loopback TEST session against a bus.Loopback so it needs no live bus
// connection to demonstrate the fields it shows.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell"

	"github.com/retrobus/netadapter/bus"
	"github.com/retrobus/netadapter/device"
	"github.com/retrobus/netadapter/protocol"
)

var refresh time.Duration

func init() {
	flag.DurationVar(&refresh, "refresh", 200*time.Millisecond, "Dashboard refresh interval")
}

func main() {
	flag.Parse()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()
	screen.Clear()

	loop := &bus.Loopback{}
	proc := device.NewProcessor(1, protocol.NewDefaultRegistry())
	openTestSession(loop, proc)

	events := make(chan tcell.Event)
	go func() {
		for {
			events <- screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventKey:
				if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			proc.Poll(loop)
			render(screen, loop)
		}
	}
}

// openTestSession issues the Open frame the dashboard's demo loop
// needs so Poll has a live handler to report on.
func openTestSession(loop *bus.Loopback, proc *device.Processor) {
	loop.QueuePayload(append([]byte("TEST://demo/"), 0x9B))
	frame := bus.CommandFrame{Device: 1, Opcode: bus.OpOpen}
	if err := proc.Handle(loop, frame); err != nil {
		log.Printf("ndastatus: open demo session: %v", err)
	}
}

func render(screen tcell.Screen, loop *bus.Loopback) {
	screen.Clear()
	style := tcell.StyleDefault

	drawText(screen, 2, 1, style.Bold(true), "Network Device Adapter - live status")
	drawText(screen, 2, 3, style, fmt.Sprintf("PROCEED: %v", loop.Proceed))

	if sig, ok := loop.LastSignal(); ok {
		drawText(screen, 2, 4, style, fmt.Sprintf("last signal: %d", sig))
	}

	drawText(screen, 2, 6, style, "press Esc or Ctrl-C to exit")
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
