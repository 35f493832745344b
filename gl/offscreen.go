// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"errors"
	"fmt"
	"image"
)

// Offscreen is a framebuffer backed by an RGBA8 renderbuffer. It gives a
// surfaceless context a render target.
type Offscreen struct {
	f      *Functions
	fbo    Framebuffer
	rbo    Renderbuffer
	width  int
	height int
}

// NewOffscreen creates and binds an offscreen framebuffer of the given
// size.
func NewOffscreen(f *Functions, width, height int) (*Offscreen, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gl: invalid offscreen size %dx%d", width, height)
	}
	if limit := f.GetInteger(MAX_RENDERBUFFER_SIZE); limit > 0 && (width > limit || height > limit) {
		return nil, fmt.Errorf("gl: offscreen size %dx%d exceeds GL_MAX_RENDERBUFFER_SIZE %d", width, height, limit)
	}
	// OpenGL ES 2.0 needs OES_rgb8_rgba8 for RGBA8 renderbuffers.
	if f.gles && f.version[0] < 3 && !hasExtension(f.Extensions(), "GL_OES_rgb8_rgba8") {
		return nil, errors.New("gl: RGBA8 renderbuffers not supported")
	}
	o := &Offscreen{
		f:      f,
		width:  width,
		height: height,
	}
	o.rbo = f.CreateRenderbuffer()
	f.BindRenderbuffer(RENDERBUFFER, o.rbo)
	f.RenderbufferStorage(RENDERBUFFER, RGBA8, width, height)
	o.fbo = f.CreateFramebuffer()
	f.BindFramebuffer(FRAMEBUFFER, o.fbo)
	f.FramebufferRenderbuffer(FRAMEBUFFER, COLOR_ATTACHMENT0, RENDERBUFFER, o.rbo)
	if st := f.CheckFramebufferStatus(FRAMEBUFFER); st != FRAMEBUFFER_COMPLETE {
		o.Release()
		return nil, fmt.Errorf("gl: offscreen framebuffer incomplete: 0x%x (%s)", uint32(st), ErrorString(f.GetError()))
	}
	f.Viewport(0, 0, width, height)
	return o, nil
}

// Size returns the framebuffer size.
func (o *Offscreen) Size() image.Point {
	return image.Point{X: o.width, Y: o.height}
}

// Bind makes the framebuffer the current render target.
func (o *Offscreen) Bind() {
	o.f.BindFramebuffer(FRAMEBUFFER, o.fbo)
	o.f.Viewport(0, 0, o.width, o.height)
}

// Screenshot reads back the framebuffer content, top row first.
func (o *Offscreen) Screenshot() (*image.RGBA, error) {
	o.f.BindFramebuffer(FRAMEBUFFER, o.fbo)
	img := image.NewRGBA(image.Rectangle{Max: o.Size()})
	o.f.PixelStorei(PACK_ALIGNMENT, 1)
	o.f.ReadPixels(0, 0, o.width, o.height, RGBA, UNSIGNED_BYTE, img.Pix)
	if err := o.f.GetError(); err != NO_ERROR {
		return nil, fmt.Errorf("gl: glReadPixels failed: %s", ErrorString(err))
	}
	flipRows(img.Pix, img.Stride, o.height)
	return img, nil
}

// Release deletes the framebuffer and renderbuffer.
func (o *Offscreen) Release() {
	if o.fbo.Valid() {
		o.f.BindFramebuffer(FRAMEBUFFER, Framebuffer{})
		o.f.DeleteFramebuffer(o.fbo)
		o.fbo = Framebuffer{}
	}
	if o.rbo.Valid() {
		o.f.BindRenderbuffer(RENDERBUFFER, Renderbuffer{})
		o.f.DeleteRenderbuffer(o.rbo)
		o.rbo = Renderbuffer{}
	}
}
