package terrain

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Params is the per-dispatch parameter block, mirrored by the std140
// uniform declaration in the compute shader. Field order is co-designed
// with the GLSL: the camera vector sits on a 16-byte boundary (std140
// vec3 alignment), the grid side packs into the vec3's trailing slot, and
// the explicit tail padding makes the serialized size a multiple of 16.
type Params struct {
	BaseAmplitude   float32
	BaseFrequency   float32
	DetailAmplitude float32
	DetailFrequency float32
	CameraPos       [3]float32 // offset 16
	GridSide        uint32     // offset 28, packs after the vec3
	GridSpacing     float32
	Time            float32
	Pad             [2]float32
}

// ParamsSize is the asserted serialized size in bytes
const ParamsSize = 48

// CheckParamsLayout asserts the uniform block's size and camera
// alignment. Run once at startup; a violation is a fatal init error.
func CheckParamsLayout() error {
	size := unsafe.Sizeof(Params{})
	if size != ParamsSize {
		return fmt.Errorf("terrain: terrain params size is %d bytes, want %d", size, ParamsSize)
	}
	if size%16 != 0 {
		return fmt.Errorf("terrain: terrain params size %d is not a multiple of 16", size)
	}
	if off := unsafe.Offsetof(Params{}.CameraPos); off%16 != 0 {
		return fmt.Errorf("terrain: camera position offset %d is not 16-byte aligned", off)
	}
	return nil
}

// Serialize encodes the block little-endian for the uniform buffer upload
func (p *Params) Serialize() []byte {
	var buf bytes.Buffer
	buf.Grow(ParamsSize)
	binary.Write(&buf, binary.LittleEndian, p)
	return buf.Bytes()
}
