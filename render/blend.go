package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// DefaultBlendState is the blend function a new Context starts with:
// the source replaces the destination.
func DefaultBlendState() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorZero,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorZero,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

func checkBlendComponent(c gputypes.BlendComponent) error {
	for _, f := range []gputypes.BlendFactor{c.SrcFactor, c.DstFactor} {
		switch f {
		case gputypes.BlendFactorZero, gputypes.BlendFactorOne,
			gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha:
		default:
			return fmt.Errorf("%w: factor %v", ErrUnsupportedBlend, f)
		}
	}
	if c.Operation != gputypes.BlendOperationAdd {
		return fmt.Errorf("%w: operation %v", ErrUnsupportedBlend, c.Operation)
	}
	return nil
}

func checkBlend(b gputypes.BlendState) error {
	if err := checkBlendComponent(b.Color); err != nil {
		return err
	}
	return checkBlendComponent(b.Alpha)
}

func blendFactor(f gputypes.BlendFactor, srcAlpha float32) float32 {
	switch f {
	case gputypes.BlendFactorOne:
		return 1
	case gputypes.BlendFactorSrcAlpha:
		return srcAlpha
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 1 - srcAlpha
	default:
		return 0
	}
}

// blend combines a clamped source color with the destination. The state
// must have passed checkBlend.
func blend(b *gputypes.BlendState, src, dst mgl32.Vec4) mgl32.Vec4 {
	if b == nil {
		return src
	}
	a := src[3]
	cs, cd := blendFactor(b.Color.SrcFactor, a), blendFactor(b.Color.DstFactor, a)
	as, ad := blendFactor(b.Alpha.SrcFactor, a), blendFactor(b.Alpha.DstFactor, a)
	return mgl32.Vec4{
		src[0]*cs + dst[0]*cd,
		src[1]*cs + dst[1]*cd,
		src[2]*cs + dst[2]*cd,
		src[3]*as + dst[3]*ad,
	}
}
