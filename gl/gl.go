// SPDX-License-Identifier: Unlicense OR MIT

// Package gl is a minimal OpenGL and OpenGL ES function table populated at
// runtime from a symbol resolver.
package gl

type Enum uint32

const (
	COLOR_ATTACHMENT0             = 0x8ce0
	COLOR_BUFFER_BIT              = 0x4000
	DEPTH_BUFFER_BIT              = 0x100
	EXTENSIONS                    = 0x1f03
	FRAMEBUFFER                   = 0x8d40
	FRAMEBUFFER_BINDING           = 0x8ca6
	FRAMEBUFFER_COMPLETE          = 0x8cd5
	INVALID_ENUM                  = 0x0500
	INVALID_FRAMEBUFFER_OPERATION = 0x0506
	INVALID_OPERATION             = 0x0502
	INVALID_VALUE                 = 0x0501
	MAX_RENDERBUFFER_SIZE         = 0x84e8
	MAX_TEXTURE_SIZE              = 0xd33
	NO_ERROR                      = 0x0
	NUM_EXTENSIONS                = 0x821d
	OUT_OF_MEMORY                 = 0x0505
	PACK_ALIGNMENT                = 0xd05
	RENDERBUFFER                  = 0x8d41
	RENDERER                      = 0x1f01
	RGBA                          = 0x1908
	RGBA8                         = 0x8058
	SAMPLES                       = 0x80a9
	SHADING_LANGUAGE_VERSION      = 0x8b8c
	STENCIL_BUFFER_BIT            = 0x400
	UNSIGNED_BYTE                 = 0x1401
	VENDOR                        = 0x1f00
	VERSION                       = 0x1f02
)
