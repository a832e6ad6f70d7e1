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

package docview

// NeonCompiler drains ADF source from a handler's reads and compiles
// it into a binary document. The compile step is the explicit
// placeholder the source describes: it inverts ATASCII case (toggles
// the high bit of a-z bytes) and nothing more. Real ADF compilation
// semantics are not defined by the source, so this is preserved
// verbatim rather than "fixed".
type NeonCompiler struct {
	source   []byte
	compiled []byte
}

// Reset clears any accumulated source, starting a fresh parse.
func (c *NeonCompiler) Reset() {
	c.source = c.source[:0]
}

// AppendSource adds a chunk the caller read from the live handler to
// the accumulated ADF source. The caller (the command processor) owns
// the drain loop described by the source's parse(): read the handler
// until its status reports connected==false, feeding each chunk here.
func (c *NeonCompiler) AppendSource(p []byte) {
	c.source = append(c.source, p...)
}

// Compile transforms the accumulated ADF source into a binary
// document by toggling the high bit of every a-z byte.
func (c *NeonCompiler) Compile() []byte {
	c.compiled = make([]byte, len(c.source))
	for i, b := range c.source {
		if b >= 'a' && b <= 'z' {
			b ^= 0x80
		}
		c.compiled[i] = b
	}
	return c.compiled
}

// Compiled returns the most recent Compile result.
func (c *NeonCompiler) Compiled() []byte {
	return c.compiled
}
