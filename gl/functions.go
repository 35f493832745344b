// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
)

// LoaderFunc resolves a GL symbol to its address. It returns 0 for
// unknown symbols.
type LoaderFunc func(name string) uintptr

// Functions is a table of GL entry points bound to the context that was
// current when it was loaded.
type Functions struct {
	glBindFramebuffer         func(target uint32, fb uint32)
	glBindRenderbuffer        func(target uint32, rb uint32)
	glCheckFramebufferStatus  func(target uint32) uint32
	glClear                   func(mask uint32)
	glClearColor              func(r, g, b, a float32)
	glDeleteFramebuffers      func(n int32, fbs *uint32)
	glDeleteRenderbuffers     func(n int32, rbs *uint32)
	glFinish                  func()
	glFlush                   func()
	glFramebufferRenderbuffer func(target, attachment, rbTarget uint32, rb uint32)
	glGenFramebuffers         func(n int32, fbs *uint32)
	glGenRenderbuffers        func(n int32, rbs *uint32)
	glGetError                func() uint32
	glGetIntegerv             func(pname uint32, data *int32)
	glGetString               func(name uint32) uintptr
	glGetStringi              func(name uint32, index uint32) uintptr
	glPixelStorei             func(pname uint32, param int32)
	glReadPixels              func(x, y, width, height int32, format, typ uint32, data unsafe.Pointer)
	glRenderbufferStorage     func(target, internalFormat uint32, width, height int32)
	glViewport                func(x, y, width, height int32)

	version [2]int
	gles    bool
}

type entry struct {
	name     string
	fn       any
	optional bool
}

func (f *Functions) entries() []entry {
	return []entry{
		{name: "glBindFramebuffer", fn: &f.glBindFramebuffer},
		{name: "glBindRenderbuffer", fn: &f.glBindRenderbuffer},
		{name: "glCheckFramebufferStatus", fn: &f.glCheckFramebufferStatus},
		{name: "glClear", fn: &f.glClear},
		{name: "glClearColor", fn: &f.glClearColor},
		{name: "glDeleteFramebuffers", fn: &f.glDeleteFramebuffers},
		{name: "glDeleteRenderbuffers", fn: &f.glDeleteRenderbuffers},
		{name: "glFinish", fn: &f.glFinish},
		{name: "glFlush", fn: &f.glFlush},
		{name: "glFramebufferRenderbuffer", fn: &f.glFramebufferRenderbuffer},
		{name: "glGenFramebuffers", fn: &f.glGenFramebuffers},
		{name: "glGenRenderbuffers", fn: &f.glGenRenderbuffers},
		{name: "glGetError", fn: &f.glGetError},
		{name: "glGetIntegerv", fn: &f.glGetIntegerv},
		{name: "glGetString", fn: &f.glGetString},
		// glGetStringi is GL 3.0 and OpenGL ES 3.0.
		{name: "glGetStringi", fn: &f.glGetStringi, optional: true},
		{name: "glPixelStorei", fn: &f.glPixelStorei},
		{name: "glReadPixels", fn: &f.glReadPixels},
		{name: "glRenderbufferStorage", fn: &f.glRenderbufferStorage},
		{name: "glViewport", fn: &f.glViewport},
	}
}

// Load resolves every entry point through load. It fails if a required
// symbol resolves to 0. No GL function is called.
func Load(load LoaderFunc) (*Functions, error) {
	if load == nil {
		return nil, errors.New("gl: nil loader")
	}
	f := new(Functions)
	var missing []string
	for _, e := range f.entries() {
		addr := load(e.name)
		if addr == 0 {
			if !e.optional {
				missing = append(missing, e.name)
			}
			continue
		}
		purego.RegisterFunc(e.fn, addr)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("gl: missing functions: %s", strings.Join(missing, ", "))
	}
	return f, nil
}

// New loads the function table and validates it against the current
// context by parsing its version string.
func New(load LoaderFunc) (*Functions, error) {
	f, err := Load(load)
	if err != nil {
		return nil, err
	}
	glVer := f.GetString(VERSION)
	if glVer == "" {
		return nil, fmt.Errorf("gl: glGetString(GL_VERSION) failed: 0x%x", f.GetError())
	}
	ver, err := ParseGLVersion(glVer)
	if err != nil {
		return nil, err
	}
	f.version = ver
	f.gles = strings.HasPrefix(glVer, "OpenGL ES")
	return f, nil
}

// Version returns the major and minor version of the context, as parsed
// by New.
func (f *Functions) Version() [2]int {
	return f.version
}

// IsES reports whether the context is an OpenGL ES context.
func (f *Functions) IsES() bool {
	return f.gles
}

// Extensions returns the extension names supported by the context.
func (f *Functions) Extensions() []string {
	if f.version[0] >= 3 && f.glGetStringi != nil {
		n := f.GetInteger(NUM_EXTENSIONS)
		exts := make([]string, 0, n)
		for i := 0; i < n; i++ {
			exts = append(exts, f.GetStringi(EXTENSIONS, i))
		}
		return exts
	}
	return strings.Fields(f.GetString(EXTENSIONS))
}

func (f *Functions) BindFramebuffer(target Enum, fb Framebuffer) {
	f.glBindFramebuffer(uint32(target), fb.V)
}

func (f *Functions) BindRenderbuffer(target Enum, rb Renderbuffer) {
	f.glBindRenderbuffer(uint32(target), rb.V)
}

func (f *Functions) CheckFramebufferStatus(target Enum) Enum {
	return Enum(f.glCheckFramebufferStatus(uint32(target)))
}

func (f *Functions) Clear(mask Enum) {
	f.glClear(uint32(mask))
}

func (f *Functions) ClearColor(red, green, blue, alpha float32) {
	f.glClearColor(red, green, blue, alpha)
}

func (f *Functions) CreateFramebuffer() Framebuffer {
	var fb uint32
	f.glGenFramebuffers(1, &fb)
	return Framebuffer{V: fb}
}

func (f *Functions) CreateRenderbuffer() Renderbuffer {
	var rb uint32
	f.glGenRenderbuffers(1, &rb)
	return Renderbuffer{V: rb}
}

func (f *Functions) DeleteFramebuffer(fb Framebuffer) {
	f.glDeleteFramebuffers(1, &fb.V)
}

func (f *Functions) DeleteRenderbuffer(rb Renderbuffer) {
	f.glDeleteRenderbuffers(1, &rb.V)
}

func (f *Functions) Finish() {
	f.glFinish()
}

func (f *Functions) Flush() {
	f.glFlush()
}

func (f *Functions) FramebufferRenderbuffer(target, attachment, renderbuffertarget Enum, rb Renderbuffer) {
	f.glFramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(renderbuffertarget), rb.V)
}

func (f *Functions) GetError() Enum {
	return Enum(f.glGetError())
}

func (f *Functions) GetInteger(pname Enum) int {
	var v int32
	f.glGetIntegerv(uint32(pname), &v)
	return int(v)
}

func (f *Functions) GetString(pname Enum) string {
	return goString(f.glGetString(uint32(pname)))
}

// GetStringi returns the indexed string, or "" if glGetStringi is not
// available.
func (f *Functions) GetStringi(pname Enum, index int) string {
	if f.glGetStringi == nil {
		return ""
	}
	return goString(f.glGetStringi(uint32(pname), uint32(index)))
}

func (f *Functions) PixelStorei(pname Enum, param int) {
	f.glPixelStorei(uint32(pname), int32(param))
}

func (f *Functions) ReadPixels(x, y, width, height int, format, ty Enum, data []byte) {
	if len(data) == 0 {
		return
	}
	f.glReadPixels(int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), unsafe.Pointer(&data[0]))
}

func (f *Functions) RenderbufferStorage(target, internalformat Enum, width, height int) {
	f.glRenderbufferStorage(uint32(target), uint32(internalformat), int32(width), int32(height))
}

func (f *Functions) Viewport(x, y, width, height int) {
	f.glViewport(int32(x), int32(y), int32(width), int32(height))
}
