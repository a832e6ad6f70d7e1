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

// Package urlspec parses the URL-like device specifier a command frame
// carries (SCHEME://[user:pass@]host[:port]/path?query#frag) and
// normalizes it against the device's working prefix.
package urlspec

import "strings"

// ParsedUrl holds the fields extracted from a devicespec. It is built
// once per Open and never mutated afterward.
type ParsedUrl struct {
	Raw      string
	Scheme   string
	User     string
	Password string
	Host     string
	Port     string
	Path     string
	Query    string
	Fragment string
	Valid    bool
}

// Parse splits raw into its URL fields. It never errors: an
// unparseable or incomplete input simply comes back with Valid=false.
// No IDN/punycode handling is performed.
func Parse(raw string) ParsedUrl {
	u := ParsedUrl{Raw: raw}

	rest := raw
	if idx := strings.Index(rest, "://"); idx >= 0 {
		u.Scheme = rest[:idx]
		rest = rest[idx+3:]
	} else {
		u.Valid = false
		return u
	}

	if idx := strings.Index(rest, "#"); idx >= 0 {
		u.Fragment = rest[idx+1:]
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, "?"); idx >= 0 {
		u.Query = rest[idx+1:]
		rest = rest[:idx]
	}

	authority := rest
	if idx := strings.Index(rest, "/"); idx >= 0 {
		authority = rest[:idx]
		u.Path = rest[idx:]
	}

	if idx := strings.Index(authority, "@"); idx >= 0 {
		userinfo := authority[:idx]
		authority = authority[idx+1:]
		if cidx := strings.Index(userinfo, ":"); cidx >= 0 {
			u.User = userinfo[:cidx]
			u.Password = userinfo[cidx+1:]
		} else {
			u.User = userinfo
		}
	}

	if idx := strings.LastIndex(authority, ":"); idx >= 0 {
		u.Host = authority[:idx]
		u.Port = authority[idx+1:]
	} else {
		u.Host = authority
	}

	u.Valid = isValid(u)
	return u
}

// isValid mirrors both spec.md's rule (scheme and host are required)
// and the stricter original-firmware rule that a scheme with neither
// a path nor a port is also invalid.
func isValid(u ParsedUrl) bool {
	if u.Scheme == "" || u.Host == "" {
		return false
	}
	if u.Path == "" && u.Port == "" {
		return false
	}
	return true
}

// String reconstructs the scheme://host[:port]/path subset of the URL,
// used by the round-trip property test in spec.md §8.
func (u ParsedUrl) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Host)
	if u.Port != "" {
		b.WriteString(":")
		b.WriteString(u.Port)
	}
	b.WriteString(u.Path)
	return b.String()
}
