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

import "strings"

// Registry maps a devicespec scheme (case-insensitive) to the factory
// that produces its NetworkProtocol handler. Built per-instance, not
// as a package-level map, so tests can register a subset of schemes
// or a fake.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewDefaultRegistry returns a Registry with every NetworkProtocol
// variant spec.md §3 names registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("TCP", NewTCP)
	r.Register("UDP", NewUDP)
	r.Register("TELNET", NewTelnet)
	r.Register("HTTP", NewHTTP)
	r.Register("HTTPS", NewHTTPS)
	r.Register("TEST", NewTest)
	r.Register("TNFS", newStub("TNFS"))
	r.Register("FTP", newStub("FTP"))
	r.Register("SSH", newStub("SSH"))
	r.Register("SMB", newStub("SMB"))
	return r
}

// Register binds scheme (case-insensitive) to factory.
func (r *Registry) Register(scheme string, factory Factory) {
	r.factories[strings.ToUpper(scheme)] = factory
}

// Lookup returns the factory for scheme, or nil if the scheme is
// unregistered, the "NULL factory" behavior get_network_adapter falls
// back to when a prefix names a protocol the device never registered.
func (r *Registry) Lookup(scheme string) Factory {
	return r.factories[strings.ToUpper(scheme)]
}
