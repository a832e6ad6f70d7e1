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
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// translateAtascii runs the 'T' special's optional transcoding pass:
// bytes are decoded through the Latin-1 charmap into runes, the
// ATASCII high bit is toggled on every letter (the host side and the
// wire side invert case via the high bit), and the runes are
// re-encoded one byte each. Used for both directions since the
// transform is its own inverse. Toggling must happen on the decoded
// runes, not the decoder's UTF-8 output bytes directly: a toggled
// byte above 0x7F is no longer valid UTF-8 on its own.
func translateAtascii(p []byte) []byte {
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), p)
	if err != nil {
		decoded = p
	}
	runes := []rune(string(decoded))
	for i, r := range runes {
		low := r &^ 0x80
		if low >= 'a' && low <= 'z' || low >= 'A' && low <= 'Z' {
			runes[i] = r ^ 0x80
		}
	}
	encoded, _, err := transform.Bytes(charmap.ISO8859_1.NewEncoder(), []byte(string(runes)))
	if err != nil {
		return p
	}
	return encoded
}
