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

package protocol

// Error codes the host understands, surfaced through NetworkStatus.Error.
const (
	ErrGeneral               byte = 1
	ErrEndOfFile             byte = 136
	ErrDevice                byte = 144
	ErrInvalidDeviceSpec     byte = 165
	ErrNotConnected          byte = 170
	ErrCouldNotAllocateBufs  byte = 171
)

// NetworkStatus is the {rx_bytes_waiting, connected, error} triple the
// host polls via the 'S' opcode.
type NetworkStatus struct {
	RxBytesWaiting uint16
	Connected      bool
	Error          byte
}

// Serialize produces the 4-byte wire form: rx_lo, rx_hi, connected, error.
func (s NetworkStatus) Serialize() [4]byte {
	var connected byte
	if s.Connected {
		connected = 1
	}
	return [4]byte{
		byte(s.RxBytesWaiting & 0xFF),
		byte(s.RxBytesWaiting >> 8),
		connected,
		s.Error,
	}
}

// Reset returns NetworkStatus to its post-Open/Close zero value.
func (s *NetworkStatus) Reset() {
	*s = NetworkStatus{}
}
