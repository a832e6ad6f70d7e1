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

package urlspec

import "strings"

// DirOpenAux1 is the aux1 value the host sends to request a
// directory-listing open (wildcard-append applies only then).
const DirOpenAux1 = 6

// NormalizeOptions carries the per-command context the normalizer
// needs: the raw aux1 byte, the device unit number the frame targets,
// and the adapter's current working prefix.
type NormalizeOptions struct {
	Aux1     byte
	DeviceID byte
	Prefix   string
}

// Normalize turns the raw device specifier bytes the host sent into a
// canonical path ready for Parse, following spec.md §4.2's six steps.
func Normalize(raw []byte, opt NormalizeOptions) string {
	s := Fix9B(raw)
	s = StripDevicePrefix(s)

	if opt.Aux1 == DirOpenAux1 && !containsWildcard(s) {
		s = appendWildcard(s)
	}

	if strings.Contains(s, ",") {
		s = selectCommaToken(s, opt.DeviceID)
	}

	s = stripNonASCII(s)
	s = collapseSpaces(s)

	if !strings.Contains(s, "://") {
		s = opt.Prefix + s
	}

	return Canonicalize(s)
}

// Fix9B truncates raw at the ATASCII end-of-line sentinel (0x9B) or at
// the first NUL, whichever comes first, yielding a C-string equivalent.
// Every special-opcode string payload the host sends (device specs,
// prefixes, credentials, JSON paths) is terminated with 0x9B; a NUL
// also ends the string, so fixed-size payloads padded with NULs lose
// their padding.
func Fix9B(raw []byte) string {
	for i, b := range raw {
		if b == 0x9B || b == 0 {
			return string(raw[:i])
		}
	}
	return string(raw)
}

// StripDevicePrefix removes a leading "N:" or "Nx:" (x = 1-8) unit
// prefix, if present.
func StripDevicePrefix(s string) string {
	if len(s) < 2 || (s[0] != 'N' && s[0] != 'n') {
		return s
	}
	if s[1] == ':' {
		return s[2:]
	}
	if len(s) >= 3 && s[1] >= '1' && s[1] <= '8' && s[2] == ':' {
		return s[3:]
	}
	return s
}

func containsWildcard(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// appendWildcard appends '*' to the final path segment, used when a
// directory-open mode request omits an explicit wildcard.
func appendWildcard(s string) string {
	return s + "*"
}

// selectCommaToken implements the DOS COPY devicespec form
// "N1:FILE,N2:OTHER" by tokenizing on ',' and keeping the token whose
// unit number matches deviceID. Tokens without an explicit unit number
// match device 1.
func selectCommaToken(s string, deviceID byte) string {
	for _, tok := range strings.Split(s, ",") {
		id := byte(1)
		trimmed := tok
		unit := tok
		if len(unit) > 0 && (unit[0] == 'N' || unit[0] == 'n') {
			unit = unit[1:]
		}
		if len(unit) >= 2 && unit[0] >= '1' && unit[0] <= '8' && unit[1] == ':' {
			id = unit[0] - '0'
			trimmed = unit[2:]
		}
		if id == deviceID {
			return trimmed
		}
	}
	return s
}

// stripNonASCII masks every byte to 7 bits, dropping the high bit the
// way the original firmware's util_strip_nonascii does.
func stripNonASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = c & 0x7F
	}
	return string(b)
}

// collapseSpaces removes ASCII space characters entirely, matching the
// original firmware's util_remove_spaces.
func collapseSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
