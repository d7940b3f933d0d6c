package shaders

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderviz"
)

// constTexture samples the same value everywhere.
type constTexture float32

func (c constTexture) Width() int  { return 1 }
func (c constTexture) Height() int { return 1 }
func (c constTexture) Sample(mgl32.Vec2) mgl32.Vec4 {
	return mgl32.Vec4{float32(c), float32(c), float32(c), 1}
}

func assertVec4(t *testing.T, want, got mgl32.Vec4) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want %v, got %v", want, got)
}

func TestSourcesCompile(t *testing.T) {
	for _, p := range All() {
		t.Run(p.Name(), func(t *testing.T) {
			src := p.Source()
			assert.Contains(t, src, "fn to_clip")
			assert.Contains(t, src, "fn vs_main")
			assert.Contains(t, src, "fn fs_main")

			spirv, err := Compile(p)
			if err != nil {
				if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
					t.Skipf("naga feature not yet implemented: %v", err)
				}
				t.Fatalf("Compile(%s): %v", p.Name(), err)
			}
			require.NotEmpty(t, spirv)
			// SPIR-V magic number.
			assert.Equal(t, uint32(0x07230203), binary.LittleEndian.Uint32(spirv[:4]))
		})
	}
}

func TestUniformBlockSizes(t *testing.T) {
	tests := []struct {
		p    Program
		size int
	}{
		{NewFlat3D(), 80},
		{NewPhong(), 272},
		{NewMeshVisualizer(), 112},
		{NewVertexColor3D(), 64},
		{NewVector2D(), 80},
		{NewDistanceFieldVector2D(), 96},
	}
	for _, tt := range tests {
		assert.Len(t, tt.p.Uniforms(), tt.size, tt.p.Name())
	}
}

func TestPhongUniformLayout(t *testing.T) {
	b := NewPhong().
		SetLightPosition(mgl32.Vec3{5, 5, 7}).
		SetShininess(200).
		Uniforms()

	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])) }
	// normal matrix columns are padded to 16 bytes
	assert.Equal(t, float32(1), f(128))
	assert.Equal(t, float32(1), f(144+4))
	assert.Equal(t, float32(1), f(160+8))
	assert.Equal(t, float32(5), f(176))
	assert.Equal(t, float32(7), f(184))
	assert.Equal(t, float32(200), f(256))
}

func TestFlat3D(t *testing.T) {
	base := shaderviz.RGBHex(0x2f83cc)
	s := NewFlat3D().SetColor(base).SetTransformationProjectionMatrix(mgl32.Translate3D(1, 2, 3))

	pos, _ := s.Vertex(0, [][]float32{{0, 0, 0}})
	assertVec4(t, mgl32.Vec4{1, 2, 3, 1}, pos)
	assertVec4(t, base.Vec4(), s.Fragment(&Varyings{}, &Varyings{}, &Varyings{}))
}

func TestVertexColor3D(t *testing.T) {
	s := NewVertexColor3D()
	_, v := s.Vertex(0, [][]float32{{0, 0, 0}, {0.25, 0.5, 0.75}})
	assertVec4(t, mgl32.Vec4{0.25, 0.5, 0.75, 1}, s.Fragment(&v, &Varyings{}, &Varyings{}))
}

func TestPhongLighting(t *testing.T) {
	ambient := shaderviz.RGBHex(0x22272e)
	s := NewPhong().
		SetAmbientColor(ambient).
		SetDiffuseColor(shaderviz.RGB(0.5, 0.5, 0.5)).
		SetShininess(200).
		SetLightPosition(mgl32.Vec3{0, 0, 10})

	t.Run("facing light and camera", func(t *testing.T) {
		// Point at the origin facing +Z, light and camera along +Z.
		var v Varyings
		copy(v[0:3], []float32{0, 0, 1})
		copy(v[3:6], []float32{0, 0, 10})
		copy(v[6:9], []float32{0, 0, 1})
		got := s.Fragment(&v, &Varyings{}, &Varyings{})
		want := ambient.Vec4().Add(mgl32.Vec4{0.5, 0.5, 0.5, 1}).Add(mgl32.Vec4{1, 1, 1, 1})
		assertVec4(t, want, got)
	})

	t.Run("facing away", func(t *testing.T) {
		var v Varyings
		copy(v[0:3], []float32{0, 0, -1})
		copy(v[3:6], []float32{0, 0, 10})
		copy(v[6:9], []float32{0, 0, 1})
		assertVec4(t, ambient.Vec4(), s.Fragment(&v, &Varyings{}, &Varyings{}))
	})

	t.Run("vertex stage", func(t *testing.T) {
		s := NewPhong().SetTransformationMatrix(mgl32.Translate3D(0, 0, -5))
		pos, v := s.Vertex(0, [][]float32{{0, 0, 1}, {0, 0, 1}})
		assertVec4(t, mgl32.Vec4{0, 0, -4, 1}, pos)
		assert.Equal(t, float32(1), v[2])
		// camera direction points back to the eye
		assert.Equal(t, float32(4), v[8])
	})
}

func TestMeshVisualizer(t *testing.T) {
	fill := shaderviz.RGBHex(0x2f83cc)
	wire := shaderviz.RGBHex(0xdcdcdc)
	s := NewMeshVisualizer().SetColor(fill).SetWireframeColor(wire).SetViewportSize(mgl32.Vec2{256, 256})
	assert.Equal(t, mgl32.Vec2{256, 256}, s.ViewportSize())

	for id := 0; id < 6; id++ {
		_, v := s.Vertex(id, [][]float32{{0, 0, 0}})
		assert.Equal(t, float32(1), v[id%3], "vertex %d", id)
	}

	deriv := Varyings{0.01, 0.01, 0.01}
	center := Varyings{1.0 / 3, 1.0 / 3, 1.0 / 3}
	edge := Varyings{0.5, 0.5, 0}
	assertVec4(t, fill.Vec4(), s.Fragment(&center, &deriv, &deriv))
	assertVec4(t, wire.Vec4(), s.Fragment(&edge, &deriv, &deriv))

	// Zero derivatives must not produce NaN.
	got := s.Fragment(&center, &Varyings{}, &Varyings{})
	assertVec4(t, fill.Vec4(), got)
}

func TestVector2D(t *testing.T) {
	base := shaderviz.RGBHex(0x2f83cc)
	s := NewVector2D().SetColor(base)
	require.ErrorIs(t, Validate(s), ErrNoTexture)

	s.BindVectorTexture(constTexture(1))
	require.NoError(t, Validate(s))
	assertVec4(t, base.Vec4(), s.Fragment(&Varyings{}, nil, nil))

	s.BindVectorTexture(constTexture(0))
	assertVec4(t, mgl32.Vec4{}, s.Fragment(&Varyings{}, nil, nil))

	pos, v := s.Vertex(0, [][]float32{{1, -1}, {1, 0}})
	assertVec4(t, mgl32.Vec4{1, -1, 0, 1}, pos)
	// V is flipped into image space.
	assert.Equal(t, float32(1), v[0])
	assert.Equal(t, float32(1), v[1])
}

func TestDistanceFieldVector2D(t *testing.T) {
	base := shaderviz.RGBHex(0x2f83cc)
	outline := shaderviz.RGBHex(0xdcdcdc)
	s := NewDistanceFieldVector2D().
		SetColor(base).
		SetOutlineColor(outline).
		SetOutlineRange(0.6, 0.4)

	tests := []struct {
		name      string
		intensity float32
		want      mgl32.Vec4
	}{
		{"inside", 1, base.Vec4()},
		{"on outline", 0.5, outline.Vec4()},
		{"outside", 0, mgl32.Vec4{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.BindVectorTexture(constTexture(tt.intensity))
			assertVec4(t, tt.want, s.Fragment(&Varyings{}, nil, nil))
		})
	}

	// Without an outline range the edge is just the fill falloff.
	s.SetOutlineRange(0.5, 1).BindVectorTexture(constTexture(0.5))
	assertVec4(t, base.Vec4().Mul(0.5), s.Fragment(&Varyings{}, nil, nil))
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, float32(0), smoothstep(0, 1, -1))
	assert.Equal(t, float32(1), smoothstep(0, 1, 2))
	assert.InDelta(t, 0.5, smoothstep(0, 1, 0.5), 1e-6)
	assert.InDelta(t, 1, smoothstep(1, 0, 0), 1e-6)
	assert.Equal(t, float32(1), smoothstep(0, 0, 0))
	assert.Equal(t, float32(0), smoothstep(0, 0, -0.1))
}
