package track

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zrksyd/ssbh-go/errs"
	"github.com/zrksyd/ssbh-go/format"
	"github.com/zrksyd/ssbh-go/vector"
)

// mustHex decodes spaced hex dumps copied from real track blobs.
func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	s = strings.NewReplacer(" ", "", "\n", "", "\t", "").Replace(s)
	data, err := hex.DecodeString(s)
	require.NoError(t, err)

	return data
}

func TestReadConstantVector4SingleFrame(t *testing.T) {
	// fighter/mario/motion/body/c00/a00wait1.nuanmb, EyeL, CustomVector30
	data := mustHex(t, "cdcccc3e 0000c03f 0000803f 0000803f")

	values, compensateScale, err := Decode(data, format.KindVector4, format.CompressionConstant, 1)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, Vector4Values{vector.NewVector4(0.4, 1.5, 1.0, 1.0)}, values)
}

func TestReadConstantUvTransformSingleFrame(t *testing.T) {
	// fighter/mario/motion/body/c00/a00wait1.nuanmb, EyeL, nfTexture1[0]
	data := mustHex(t, "0000803f 0000803f 00000000 00000000 00000000")

	values, compensateScale, err := Decode(data, format.KindUvTransform, format.CompressionConstant, 1)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, UvTransformValues{{ScaleU: 1.0, ScaleV: 1.0}}, values)
}

func TestReadCompressedUvTransformMultipleFrames(t *testing.T) {
	// stage/kirby_greens/normal/motion/whispy_set/whispy_set_turnblowl3.nuanmb,
	// _sfx_GrdGreensGrassAM1, nfTexture0[0]
	data := mustHex(t, `
		04000900 60002600 74000000 14000000
		2a8e633e 34a13d3f 0a000000 00000000
		cdcc4c3e 7a8c623f 0a000000 00000000
		00000000 00000000 10000000 00000000
		ec51b8be bc7413bd 09000000 00000000
		a24536be e17a943e 09000000 00000000
		34a13d3f 7a8c623f 00000000 bc7413bd a24536be
		ffffff1f 80b4931a cfc12071 8de500e6 535555`)

	values, compensateScale, err := Decode(data, format.KindUvTransform, format.CompressionCompressed, 4)
	require.NoError(t, err)
	require.False(t, compensateScale)

	require.Equal(t, UvTransformValues{
		{ScaleU: 0.740741, ScaleV: 0.884956, Rotation: 0.0, TranslateU: -0.036, TranslateV: -0.178},
		{ScaleU: 0.5881758, ScaleV: 0.64123756, Rotation: 0.0, TranslateU: -0.0721409, TranslateV: -0.12579648},
		{ScaleU: 0.48781726, ScaleV: 0.5026394, Rotation: 0.0, TranslateU: -0.1082818, TranslateV: -0.07359296},
		{ScaleU: 0.4168567, ScaleV: 0.41291887, Rotation: 0.0, TranslateU: -0.14378865, TranslateV: -0.02230529},
	}, values)
}

func TestReadCompressedUvTransformUniformScale(t *testing.T) {
	// fighter/mario/motion/body/c00/f01damageflymeteor.nuanmb, EyeL0 material,
	// DiffuseUVTransform. Uniform scale reads one float and broadcasts it.
	data := mustHex(t, `
		04000B00 60001600 74000000 25000000
		3333333F 9A99593F 08000000 00000000
		3333333F 9A99593F 10000000 00000000
		00000000 00000000 10000000 00000000
		9A9919BE 9A9999BD 07000000 00000000
		9A99993D 9A99193E 07000000 00000000
		9A99593F 9A99593F 00000000 9A9999BD 9A99993D
		FF7FC0FF 1FF0FF07 FCFF01FF 7FC0FF1F
		F0FF07FC FF01FF7F C0FF1FF0 FF07FCFF
		01FF7FC0 FF1F108F 3F309B33 9B4D1999
		AC399331 3B1CF000 803F00E0 0F00F803
		00FE0080 3F00E00F 00F80300 FE00803F
		00E00F00 F80300FE 00803F00 E00F00F8 0300FE00 803F`)

	values, compensateScale, err := Decode(data, format.KindUvTransform, format.CompressionCompressed, 37)
	require.NoError(t, err)
	require.False(t, compensateScale)

	uv := func(scale, translate float32) UvTransform {
		return UvTransform{
			ScaleU:     scale,
			ScaleV:     scale,
			TranslateU: -translate,
			TranslateV: translate,
		}
	}

	expected := make(UvTransformValues, 0, 37)
	for i := 0; i < 14; i++ {
		expected = append(expected, uv(0.85, 0.075))
	}
	expected = append(expected,
		uv(0.84176475, 0.07913386),
		uv(0.82, 0.08976378),
		uv(0.7911765, 0.10452756),
		uv(0.7588235, 0.120472446),
		uv(0.73, 0.13523622),
		uv(0.70823526, 0.14586614),
	)
	for i := 0; i < 17; i++ {
		expected = append(expected, uv(0.7, 0.15))
	}

	require.Equal(t, expected, values)
}

func TestReadConstantPatternIndexSingleFrame(t *testing.T) {
	data := mustHex(t, "01000000")

	values, compensateScale, err := Decode(data, format.KindPatternIndex, format.CompressionConstant, 1)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, PatternIndexValues{1}, values)
}

func TestReadCompressedPatternIndexMultipleFrames(t *testing.T) {
	// stage/fzero_mutecity3ds/normal/motion/s05_course/s05_course__l00b.nuanmb.
	// Shortened from 650 to 8 frames. Values are stored biased by min.
	data := mustHex(t, `
		04000000 20000100 24000000 8a020000
		01000000 02000000 01000000 00000000
		01000000
		fe`)

	values, compensateScale, err := Decode(data, format.KindPatternIndex, format.CompressionCompressed, 8)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, PatternIndexValues{1, 2, 2, 2, 2, 2, 2, 2}, values)
}

func TestReadCompressedPatternIndexZeroBitCount(t *testing.T) {
	// Zero bits per entry collapses every frame into the stored minimum.
	data := mustHex(t, `
		04000000 20000000 24000000 08000000
		05000000 05000000 00000000 00000000
		05000000`)

	values, _, err := Decode(data, format.KindPatternIndex, format.CompressionCompressed, 8)
	require.NoError(t, err)
	require.Equal(t, PatternIndexValues{5}, values)
}

func TestReadConstantFloatSingleFrame(t *testing.T) {
	// assist/shovelknight/model/body/c00/model.nuanmb, CustomFloat8
	data := mustHex(t, "cdcccc3e")

	values, compensateScale, err := Decode(data, format.KindFloat, format.CompressionConstant, 1)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, FloatValues{0.4}, values)
}

func TestReadCompressedFloatAllEqual(t *testing.T) {
	// It's possible to have a high frame count with 0 bits per entry.
	// The default value is used for all entries, collapsed to one frame.
	// A naive implementation will likely crash.
	data := mustHex(t, `
		04000000 20000000 24000000 FFFFFFFF
		cdcccc3e cdcccc3e 10000000 00000000
		cdcccc3e`)

	values, compensateScale, err := Decode(data, format.KindFloat, format.CompressionCompressed, 0xFFFFFFFF)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, FloatValues{0.4}, values)
}

func TestReadCompressedFloatMultipleFrames(t *testing.T) {
	// pacman/model/body/c00/model.nuanmb, CustomFloat2
	data := mustHex(t, `
		04000000 20000200 24000000 05000000
		00000000 00004040 02000000 00000000
		00000000
		e403`)

	values, compensateScale, err := Decode(data, format.KindFloat, format.CompressionCompressed, 5)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, FloatValues{0.0, 1.0, 2.0, 3.0, 3.0}, values)
}

func TestReadConstantBooleanSingleFrame(t *testing.T) {
	values, compensateScale, err := Decode([]byte{0x01}, format.KindBoolean, format.CompressionConstant, 1)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, BooleanValues{true}, values)

	values, _, err = Decode([]byte{0x00}, format.KindBoolean, format.CompressionConstant, 1)
	require.NoError(t, err)
	require.Equal(t, BooleanValues{false}, values)
}

func TestReadCompressedBooleanMultipleFrames(t *testing.T) {
	// assist/ashley/motion/body/c00/vis.nuanmb, magic, Visibility
	data := mustHex(t, `
		04000000 20000100 21000000 03000000
		00000000 00000000 00000000 00000000
		0006`)

	values, compensateScale, err := Decode(data, format.KindBoolean, format.CompressionCompressed, 3)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, BooleanValues{false, true, true}, values)
}

func TestReadCompressedVector4MultipleFrames(t *testing.T) {
	// fighter/cloud/motion/body/c00/b00guardon.nuanmb, EyeL, CustomVector31.
	// The default mixes zero bit count components with quantized z.
	data := mustHex(t, `
		04000000 50000300 60000000 08000000
		0000803f 0000803f 00000000 00000000
		0000803f 0000803f 00000000 00000000
		3108ac3d bc74133e 03000000 00000000
		00000000 00000000 00000000 00000000
		0000803f 0000803f 3108ac3d 00000000
		88c6fa`)

	values, compensateScale, err := Decode(data, format.KindVector4, format.CompressionCompressed, 8)
	require.NoError(t, err)
	require.False(t, compensateScale)

	require.Equal(t, Vector4Values{
		vector.NewVector4(1.0, 1.0, 0.084, 0.0),
		vector.NewVector4(1.0, 1.0, 0.09257143, 0.0),
		vector.NewVector4(1.0, 1.0, 0.10114285, 0.0),
		vector.NewVector4(1.0, 1.0, 0.109714285, 0.0),
		vector.NewVector4(1.0, 1.0, 0.11828571, 0.0),
		vector.NewVector4(1.0, 1.0, 0.12685713, 0.0),
		vector.NewVector4(1.0, 1.0, 0.13542856, 0.0),
		vector.NewVector4(1.0, 1.0, 0.144, 0.0),
	}, values)
}

func TestReadConstantTransformSingleFrame(t *testing.T) {
	// assist/shovelknight/model/body/c00/model.nuanmb, FingerL11, Transform
	data := mustHex(t, `
		0000803f 0000803f 0000803f
		00000000 00000000 00000000 0000803f
		bea4c13f 79906ebe f641bebe
		01000000`)

	values, compensateScale, err := Decode(data, format.KindTransform, format.CompressionConstTransform, 1)
	require.NoError(t, err)
	require.True(t, compensateScale)

	require.Equal(t, TransformValues{
		{
			Scale:       vector.NewVector3(1.0, 1.0, 1.0),
			Rotation:    vector.NewVector4(0.0, 0.0, 0.0, 1.0),
			Translation: vector.NewVector3(1.51284, -0.232973, -0.371597),
		},
	}, values)
}

func TestReadDirectTransformMultipleFrames(t *testing.T) {
	// camera/fighter/ike/c00/d02finalstart.nuanmb, gya_camera, Transform.
	// Shortened from 8 to 2 frames.
	data := mustHex(t, `
		0000803f 0000803f 0000803f
		1dca203e 437216bf a002cbbd 5699493f
		9790e5c1 1f68a040 f7affa40 00000000
		0000803f 0000803f 0000803f
		c7d8093e 336b19bf 5513e4bd e3fe473f
		6da703c2 dfc3a840 b8120b41 00000000`)

	values, compensateScale, err := Decode(data, format.KindTransform, format.CompressionDirect, 2)
	require.NoError(t, err)
	require.False(t, compensateScale)

	require.Equal(t, TransformValues{
		{
			Scale:       vector.NewVector3(1.0, 1.0, 1.0),
			Rotation:    vector.NewVector4(0.157021, -0.587681, -0.0991261, 0.787496),
			Translation: vector.NewVector3(-28.6956, 5.01271, 7.83398),
		},
		{
			Scale:       vector.NewVector3(1.0, 1.0, 1.0),
			Rotation:    vector.NewVector4(0.134616, -0.599292, -0.111365, 0.781233),
			Translation: vector.NewVector3(-32.9135, 5.27391, 8.69207),
		},
	}, values)
}

const compressedTransformConstUniformScaleHex = `
	04000600 a0002b00 cc000000 02000000
	0000803f 0000803f 10000000 00000000
	0000803f 0000803f 10000000 00000000
	0000803f 0000803f 10000000 00000000
	00000000 b9bc433d 0d000000 00000000
	e27186bd 00000000 0d000000 00000000
	00000000 ada2273f 10000000 00000000
	16a41d40 16a41d40 10000000 00000000
	00000000 00000000 10000000 00000000
	00000000 00000000 10000000 00000000
	0000803f 0000803f 0000803f
	00000000 00000000 00000000 0000803f
	16a41d40 00000000 00000000
	00000000
	00e0ff03 00f8ff00 e0ff1f`

func TestReadCompressedTransformConstUniformScale(t *testing.T) {
	// assist/shovelknight/model/body/c00/model.nuanmb, ArmL, Transform.
	// Every scale and translation range is degenerate; only rotation consumes bits.
	data := mustHex(t, compressedTransformConstUniformScaleHex)

	values, compensateScale, err := Decode(data, format.KindTransform, format.CompressionCompressed, 2)
	require.NoError(t, err)
	require.False(t, compensateScale)

	require.Equal(t, TransformValues{
		{
			Scale:       vector.NewVector3(1.0, 1.0, 1.0),
			Rotation:    vector.NewVector4(0.0, 0.0, 0.0, 1.0),
			Translation: vector.NewVector3(2.46314, 0.0, 0.0),
		},
		{
			Scale:       vector.NewVector3(1.0, 1.0, 1.0),
			Rotation:    vector.NewVector4(0.0477874, -0.0656469, 0.654826, 0.7514052),
			Translation: vector.NewVector3(2.46314, 0.0, 0.0),
		},
	}, values)
}

func TestReadCompressedTransformNullDefaultPointer(t *testing.T) {
	data := mustHex(t, compressedTransformConstUniformScaleHex)
	// Zero out the default data pointer.
	data[4] = 0
	data[5] = 0

	_, _, err := Decode(data, format.KindTransform, format.CompressionCompressed, 2)
	require.ErrorIs(t, err, errs.ErrMalformedCompressionHeader)
}

func TestReadCompressedTransformUniformScale(t *testing.T) {
	// fighter/buddy/motion/body/c00/g00ceildamage.nuanmb, K_wingL3, Transform.
	// Uniform scale: one 9-bit float per frame broadcast to all components;
	// rotation and translation come from the default.
	data := mustHex(t, `
		04000300 A0000900 CC000000 09000000
		0000003F 0000803F 09000000 00000000
		0000003F 0000803F 10000000 00000000
		0000003F 0000803F 10000000 00000000
		1D13533D 1D13533D 10000000 00000000
		03BA8ABD 03BA8ABD 10000000 00000000
		16139BBE 16139BBE 10000000 00000000
		CDCCEC3F CDCCEC3F 10000000 00000000
		00000000 00000000 10000000 00000000
		00000000 00000000 10000000 00000000
		0000803F 0000803F 0000803F
		1D13533D 03BA8ABD 16139BBE 1500733F
		CDCCEC3F 00000000 00000000
		00000000
		FFFFFF37 0F7A2600 003301`)

	values, compensateScale, err := Decode(data, format.KindTransform, format.CompressionCompressed, 9)
	require.NoError(t, err)
	require.False(t, compensateScale)

	rotation := vector.NewVector4(0.0515319, -0.0677376, -0.30288, 0.94922)
	translation := vector.NewVector3(1.85, 0.0, 0.0)
	frame := func(scale float32) Transform {
		return Transform{
			Scale:       vector.NewVector3(scale, scale, scale),
			Rotation:    rotation,
			Translation: translation,
		}
	}

	require.Equal(t, TransformValues{
		frame(1.0), frame(1.0), frame(1.0),
		frame(0.97553813), frame(0.907045), frame(0.8003914),
		frame(0.5), frame(0.5), frame(0.8003914),
	}, values)
}

func TestReadCompressedUnexpectedBitCount(t *testing.T) {
	data := mustHex(t, `
		04000000 20000200 24000000 05000000
		00000000 00004040 02000000 00000000
		00000000
		e403`)
	// Header claims 3 bits per entry; the descriptor sums to 2.
	data[6] = 3

	_, _, err := Decode(data, format.KindFloat, format.CompressionCompressed, 5)
	require.ErrorIs(t, err, errs.ErrUnexpectedBitCount)

	var bitCountErr *errs.UnexpectedBitCountError
	require.ErrorAs(t, err, &bitCountErr)
	require.Equal(t, uint64(2), bitCountErr.Expected)
	require.Equal(t, uint64(3), bitCountErr.Actual)
}

func TestReadCompressedTruncatedBitstream(t *testing.T) {
	data := mustHex(t, `
		04000000 20000200 24000000 05000000
		00000000 00004040 02000000 00000000
		00000000
		e4`)

	_, _, err := Decode(data, format.KindFloat, format.CompressionCompressed, 5)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestReadCompressedHeaderTooShort(t *testing.T) {
	_, _, err := Decode(make([]byte, 8), format.KindFloat, format.CompressionCompressed, 1)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestReadUncompressedTruncated(t *testing.T) {
	_, _, err := Decode(make([]byte, 3), format.KindFloat, format.CompressionDirect, 1)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestReadInvalidCompressionType(t *testing.T) {
	_, _, err := Decode(nil, format.KindFloat, format.CompressionType(0xFF), 0)
	require.ErrorIs(t, err, errs.ErrInvalidCompressionType)
}

func TestReadEmptyFrameSequence(t *testing.T) {
	blob, err := Encode(FloatValues{}, format.CompressionCompressed)
	require.NoError(t, err)

	values, _, err := Decode(blob, format.KindFloat, format.CompressionCompressed, 0)
	require.NoError(t, err)
	require.Equal(t, FloatValues{}, values)
}
