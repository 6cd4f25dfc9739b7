package terrain

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"

	"vibesurfer/internal/debug"
)

// workgroupSize matches local_size_x in the compute shader
const workgroupSize = 256

// Compute owns the GPU side of the terrain: the compute program, the
// parameter UBO, the vertex storage buffer (written by compute, read as a
// vertex source in the same submission window), the static index buffer,
// and the one-in-flight readback that feeds the Floating oracle.
//
// All methods must run on the thread that owns the GL context.
type Compute struct {
	grid   *Grid
	logger *debug.Logger

	program      uint32
	ubo          uint32
	vertexBuffer uint32
	indexBuffer  uint32

	// Readback state: at most one copy in flight, fence-guarded
	readbackBuffer uint32
	fence          uintptr
	fencePending   bool
	readbackRow    []Vertex

	oracle *Oracle
}

// NewCompute compiles the kernel and allocates the GPU buffers. Layout
// assertions run first; a mismatch is a fatal init error, not something
// to limp past.
func NewCompute(grid *Grid, logger *debug.Logger) (*Compute, error) {
	if err := CheckVertexLayout(); err != nil {
		return nil, err
	}
	if err := CheckParamsLayout(); err != nil {
		return nil, err
	}

	program, err := compileComputeProgram(ComputeShaderSource)
	if err != nil {
		return nil, fmt.Errorf("terrain: compute shader: %w", err)
	}

	c := &Compute{
		grid:        grid,
		logger:      logger,
		program:     program,
		readbackRow: make([]Vertex, grid.Side),
		oracle:      NewOracle(),
	}

	gl.GenBuffers(1, &c.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, c.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, ParamsSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	// The vertex buffer is written by the compute pass and consumed as a
	// vertex source by the render pass; in GL the same buffer object
	// serves both bind points
	gl.GenBuffers(1, &c.vertexBuffer)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, c.vertexBuffer)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, grid.VertexBufferSize(), nil, gl.DYNAMIC_COPY)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)

	gl.GenBuffers(1, &c.indexBuffer)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.indexBuffer)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(grid.Indices)*4, gl.Ptr(grid.Indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	gl.GenBuffers(1, &c.readbackBuffer)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, c.readbackBuffer)
	gl.BufferData(gl.COPY_WRITE_BUFFER, int(grid.Side)*VertexStride, nil, gl.STREAM_READ)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	return c, nil
}

// Oracle returns the terrain-height oracle fed by readbacks
func (c *Compute) Oracle() *Oracle {
	return c.oracle
}

// VertexBuffer returns the GL buffer object holding the vertex grid
func (c *Compute) VertexBuffer() uint32 {
	return c.vertexBuffer
}

// IndexBuffer returns the GL buffer object holding the static index list
func (c *Compute) IndexBuffer() uint32 {
	return c.indexBuffer
}

// Dispatch uploads the parameter block and launches the kernel over the
// whole grid. The memory barrier orders the compute writes before the
// render pass's vertex fetch in the same command stream.
func (c *Compute) Dispatch(p *Params) {
	c.oracle.SetParams(*p)

	data := p.Serialize()
	gl.BindBuffer(gl.UNIFORM_BUFFER, c.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	gl.UseProgram(c.program)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, 0, c.ubo)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, c.vertexBuffer)

	groups := (uint32(c.grid.VertexCount()) + workgroupSize - 1) / workgroupSize
	gl.DispatchCompute(groups, 1, 1)

	gl.MemoryBarrier(gl.VERTEX_ATTRIB_ARRAY_BARRIER_BIT | gl.ELEMENT_ARRAY_BARRIER_BIT)
}

// RequestReadback queues a copy of the camera-center row for the Floating
// oracle. A request while one is pending is dropped; the oracle keeps its
// last observed heights.
func (c *Compute) RequestReadback() {
	if c.fencePending {
		return
	}

	n := int(c.grid.Side)
	rowOffset := (n / 2) * n * VertexStride

	gl.BindBuffer(gl.COPY_READ_BUFFER, c.vertexBuffer)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, c.readbackBuffer)
	gl.CopyBufferSubData(gl.COPY_READ_BUFFER, gl.COPY_WRITE_BUFFER, rowOffset, 0, n*VertexStride)
	gl.BindBuffer(gl.COPY_READ_BUFFER, 0)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	c.fence = gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
	c.fencePending = true
}

// PollReadback completes a pending readback without blocking. Called once
// per frame before the camera update; the data it lands is one frame old,
// which the Floating preset tolerates.
func (c *Compute) PollReadback() {
	if !c.fencePending {
		return
	}

	status := gl.ClientWaitSync(c.fence, 0, 0)
	if status != gl.ALREADY_SIGNALED && status != gl.CONDITION_SATISFIED {
		return
	}

	gl.DeleteSync(c.fence)
	c.fencePending = false

	n := int(c.grid.Side)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, c.readbackBuffer)
	gl.GetBufferSubData(gl.COPY_WRITE_BUFFER, 0, n*VertexStride, unsafe.Pointer(&c.readbackRow[0]))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	c.oracle.SetRow(c.readbackRow)

	if c.logger != nil {
		c.logger.LogTerrainf(debug.LogLevelTrace, "readback row landed, origin x=%.1f", c.readbackRow[0].Position[0])
	}
}

// Destroy releases the GL objects
func (c *Compute) Destroy() {
	if c.fencePending {
		gl.DeleteSync(c.fence)
		c.fencePending = false
	}
	gl.DeleteBuffers(1, &c.ubo)
	gl.DeleteBuffers(1, &c.vertexBuffer)
	gl.DeleteBuffers(1, &c.indexBuffer)
	gl.DeleteBuffers(1, &c.readbackBuffer)
	gl.DeleteProgram(c.program)
}

// compileComputeProgram compiles and links a compute shader, surfacing
// the driver's info log (which carries source spans) on failure
func compileComputeProgram(source string) (uint32, error) {
	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := shaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed:\n%s", log)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)
	gl.DeleteShader(shader)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link failed:\n%s", log)
	}

	return program, nil
}

func shaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return "(no info log)"
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return log
}
