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

package device

import (
	"sync"
	"time"
)

const defaultTimerRate = 100 * time.Millisecond

// rateLimiter drives the host-visible PROCEED line at a configurable
// interval. Grounded on the teacher's keyboard.Device ticker/IRQ pair
// and pic.Device: a ticker toggles a bool under timerMux, and the
// caller's poll applies the gating predicate before asserting PROCEED.
type rateLimiter struct {
	timerMux sync.Mutex
	ticker   *time.Ticker
	done     chan struct{}
	tick     bool
	rate     time.Duration
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{rate: defaultTimerRate}
}

// setRate changes the interval used by the next timerStart call.
func (r *rateLimiter) setRate(d time.Duration) {
	r.timerMux.Lock()
	defer r.timerMux.Unlock()
	r.rate = d
}

// timerStart replaces any running timer with a fresh one at the
// current rate.
func (r *rateLimiter) timerStart() {
	r.timerMux.Lock()
	if r.ticker != nil {
		r.ticker.Stop()
		close(r.done)
	}
	r.ticker = time.NewTicker(r.rate)
	r.done = make(chan struct{})
	ticker, done := r.ticker, r.done
	r.timerMux.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				r.timerMux.Lock()
				r.tick = !r.tick
				r.timerMux.Unlock()
			case <-done:
				return
			}
		}
	}()
}

// timerStop is idempotent: a second call with no running timer is a
// no-op.
func (r *rateLimiter) timerStop() {
	r.timerMux.Lock()
	defer r.timerMux.Unlock()
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	close(r.done)
	r.ticker = nil
	r.done = nil
}

func (r *rateLimiter) snapshot() bool {
	r.timerMux.Lock()
	defer r.timerMux.Unlock()
	return r.tick
}

// proceed applies spec's gating predicate: interrupts must be enabled
// by the live handler, and one of forceStatus, rxWaiting, or a
// disconnected remote must hold.
func (r *rateLimiter) proceed(interruptsEnabled, forceStatus bool, rxWaiting int, connected bool) bool {
	if !interruptsEnabled {
		return false
	}
	if !r.snapshot() {
		return false
	}
	return forceStatus || rxWaiting > 0 || !connected
}
