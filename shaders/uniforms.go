package shaders

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// uniformWriter packs values with WGSL uniform address space alignment.
type uniformWriter struct {
	buf []byte
}

func (w *uniformWriter) align(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

func (w *uniformWriter) f32(v float32) {
	w.align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

func (w *uniformWriter) vec2(v mgl32.Vec2) {
	w.align(8)
	w.f32(v[0])
	w.f32(v[1])
}

func (w *uniformWriter) vec3(v mgl32.Vec3) {
	w.align(16)
	w.f32(v[0])
	w.f32(v[1])
	w.f32(v[2])
}

func (w *uniformWriter) vec4(v mgl32.Vec4) {
	w.align(16)
	for _, c := range v {
		w.f32(c)
	}
}

// mat3 writes three columns, each padded to 16 bytes.
func (w *uniformWriter) mat3(m mgl32.Mat3) {
	for c := 0; c < 3; c++ {
		w.vec3(m.Col(c))
	}
	w.align(16)
}

func (w *uniformWriter) mat4(m mgl32.Mat4) {
	w.align(16)
	for _, c := range m {
		w.f32(c)
	}
}

// bytes returns the block padded to its 16-byte struct alignment.
func (w *uniformWriter) bytes() []byte {
	w.align(16)
	return w.buf
}
