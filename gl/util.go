// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"
)

// ParseGLVersion parses a GL_VERSION string such as "OpenGL ES 3.2 Mesa
// 23.1" or "4.6 (Core Profile) Mesa 23.1".
func ParseGLVersion(glVer string) ([2]int, error) {
	var ver [2]int
	if _, err := fmt.Sscanf(glVer, "OpenGL ES %d.%d", &ver[0], &ver[1]); err == nil {
		return ver, nil
	} else if _, err := fmt.Sscanf(glVer, "%d.%d", &ver[0], &ver[1]); err == nil {
		return ver, nil
	}
	return ver, fmt.Errorf("failed to parse OpenGL version (%s)", glVer)
}

// ErrorString returns the symbolic name of a glGetError code.
func ErrorString(e Enum) string {
	switch e {
	case NO_ERROR:
		return "GL_NO_ERROR"
	case INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	default:
		return fmt.Sprintf("0x%x", uint32(e))
	}
}

func hasExtension(exts []string, ext string) bool {
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// flipRows reverses the row order of pix in place. GL returns pixels
// bottom row first.
func flipRows(pix []byte, stride, height int) {
	tmp := make([]byte, stride)
	for top, bot := 0, height-1; top < bot; top, bot = top+1, bot-1 {
		t := pix[top*stride : (top+1)*stride]
		b := pix[bot*stride : (bot+1)*stride]
		copy(tmp, t)
		copy(t, b)
		copy(b, tmp)
	}
}
