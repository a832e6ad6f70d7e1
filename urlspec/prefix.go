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

// Prefix is the process-wide current working location (spec.md's
// Prefix data model). It is kept on the owning struct rather than as a
// true global so tests can hold independent instances.
type Prefix struct {
	value string
}

// String returns the current canonical prefix.
func (p *Prefix) String() string {
	return p.value
}

// Set mutates the prefix according to the payload the host sent to the
// 'set_prefix' special (spec.md §4.6), then canonicalizes the result.
// edit is the payload with any leading "unit:" already stripped.
func (p *Prefix) Set(edit string) {
	switch {
	case edit == "":
		p.value = ""
	case edit == ".." || edit == "<":
		p.value = stepUp(p.value)
	case edit == "/" || edit == ">":
		p.value = hostRoot(p.value)
	case strings.HasPrefix(edit, "/") || strings.Contains(edit, ":"):
		p.value = edit
	default:
		p.value += edit
	}
	p.value = Canonicalize(p.value)
}

// stepUp strips the last path segment, matching sio_set_prefix's ".."
// handling: find the last '/' before a trailing one and truncate there.
func stepUp(prefix string) string {
	locations := []int{}
	for i, c := range prefix {
		if c == '/' {
			locations = append(locations, i)
		}
	}
	if len(locations) == 0 {
		return prefix
	}
	if strings.HasSuffix(prefix, "/") {
		locations = locations[:len(locations)-1]
	}
	if len(locations) == 0 {
		return ""
	}
	return prefix[:locations[len(locations)-1]+1]
}

// hostRoot truncates the prefix back to "scheme://host/", matching the
// original firmware's '/' and '>' rule (spec.md §4.6 supplement).
func hostRoot(prefix string) string {
	idx := strings.Index(prefix, "://")
	if idx < 0 {
		return "/"
	}
	rest := prefix[idx+3:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		return prefix[:idx+3+slash+1]
	}
	return prefix + "/"
}

// Canonicalize removes "." and ".." segments and collapses repeated
// slashes, preserving a leading "scheme://host" authority if present,
// otherwise enforcing exactly one leading '/'.
func Canonicalize(p string) string {
	if p == "" {
		return ""
	}

	authority := ""
	rest := p
	if idx := strings.Index(p, "://"); idx >= 0 {
		hostEnd := strings.Index(p[idx+3:], "/")
		if hostEnd < 0 {
			return p
		}
		authority = p[:idx+3+hostEnd]
		rest = p[idx+3+hostEnd:]
	}

	segments := strings.Split(rest, "/")
	var out []string
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}

	canon := "/" + strings.Join(out, "/")
	if strings.HasSuffix(rest, "/") && canon != "/" {
		canon += "/"
	}

	return authority + canon
}
