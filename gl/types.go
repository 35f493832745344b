// SPDX-License-Identifier: Unlicense OR MIT

package gl

type (
	Framebuffer  struct{ V uint32 }
	Renderbuffer struct{ V uint32 }
)

func (f Framebuffer) Valid() bool {
	return f.V != 0
}

func (r Renderbuffer) Valid() bool {
	return r.V != 0
}
