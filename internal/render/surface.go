package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"

	"vibesurfer/internal/debug"
)

// Surface owns the window, the GL context and the per-frame render pass.
// It accepts a compute-written vertex buffer, the static index buffer, a
// view-projection matrix and the audio-reactive visual parameters, and
// presents one frame. A sky gradient is drawn before the terrain; depth
// testing is not enabled, and the terrain triangles are drawn in index
// order (rows of increasing world z).
type Surface struct {
	window    *sdl.Window
	glContext sdl.GLContext
	logger    *debug.Logger

	width  int32
	height int32

	terrainProgram uint32
	skyProgram     uint32
	terrainVAO     uint32
	skyVAO         uint32

	locViewProj  int32
	locAmplitude int32
	locFrequency int32
	locLineWidth int32
	locTime      int32
	locSkyTime   int32

	// Scratch for recording-mode pixel readout
	pixels []byte
}

// NewSurface initializes SDL, creates the window and a 4.3 core context,
// and compiles the render programs
func NewSurface(title string, width, height int32, logger *debug.Logger) (*Surface, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("render: failed to initialize SDL: %w", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		width,
		height,
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("render: failed to create window: %w", err)
	}

	glContext, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("render: failed to create GL context: %w", err)
	}

	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(glContext)
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("render: failed to initialize GL bindings: %w", err)
	}

	// Swap interval 1 = vsync; the frame limiter covers drivers that
	// ignore it
	sdl.GLSetSwapInterval(1)

	s := &Surface{
		window:    window,
		glContext: glContext,
		logger:    logger,
		width:     width,
		height:    height,
		pixels:    make([]byte, int(width)*int(height)*4),
	}

	s.terrainProgram, err = compileProgram(terrainVertexShader, terrainFragmentShader)
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("render: terrain shader: %w", err)
	}
	s.skyProgram, err = compileProgram(skyVertexShader, skyFragmentShader)
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("render: sky shader: %w", err)
	}

	s.locViewProj = gl.GetUniformLocation(s.terrainProgram, gl.Str("view_projection\x00"))
	s.locAmplitude = gl.GetUniformLocation(s.terrainProgram, gl.Str("amplitude\x00"))
	s.locFrequency = gl.GetUniformLocation(s.terrainProgram, gl.Str("frequency\x00"))
	s.locLineWidth = gl.GetUniformLocation(s.terrainProgram, gl.Str("line_width\x00"))
	s.locTime = gl.GetUniformLocation(s.terrainProgram, gl.Str("time\x00"))
	s.locSkyTime = gl.GetUniformLocation(s.skyProgram, gl.Str("time\x00"))

	gl.GenVertexArrays(1, &s.skyVAO)

	gl.Viewport(0, 0, width, height)

	if logger != nil {
		logger.LogRenderf(debug.LogLevelInfo, "GL %s on %s",
			gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))
	}

	return s, nil
}

// BindTerrainBuffers wires the compute-written vertex buffer and the
// static index buffer into the terrain VAO. Called once at startup; the
// attribute layout mirrors the 32-byte vertex stride.
func (s *Surface) BindTerrainBuffers(vertexBuffer, indexBuffer uint32) {
	gl.GenVertexArrays(1, &s.terrainVAO)
	gl.BindVertexArray(s.terrainVAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, vertexBuffer)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 32, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 32, gl.PtrOffset(16))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, indexBuffer)
	gl.BindVertexArray(0)
}

// PollQuit drains pending events and reports whether the user asked to
// exit (window close or escape)
func (s *Surface) PollQuit() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				return true
			}
		}
	}
	return false
}

// Frame draws one frame: sky gradient, then the terrain as an indexed
// triangle list straight out of the compute-written buffer
func (s *Surface) Frame(indexCount int32, viewProj mgl32.Mat4, amplitude, frequency, lineWidth, t float32) {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	// Background first, per the render contract
	gl.UseProgram(s.skyProgram)
	gl.Uniform1f(s.locSkyTime, t)
	gl.BindVertexArray(s.skyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.UseProgram(s.terrainProgram)
	gl.UniformMatrix4fv(s.locViewProj, 1, false, &viewProj[0])
	gl.Uniform1f(s.locAmplitude, amplitude)
	gl.Uniform1f(s.locFrequency, frequency)
	gl.Uniform1f(s.locLineWidth, lineWidth)
	gl.Uniform1f(s.locTime, t)

	gl.BindVertexArray(s.terrainVAO)
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

// Present swaps the back buffer onto the screen
func (s *Surface) Present() {
	s.window.GLSwap()
}

// CaptureFrame reads the back buffer into an RGBA image for the
// recorder. GL's origin is bottom-left, so rows are flipped on the way
// out.
func (s *Surface) CaptureFrame() *image.RGBA {
	w, h := int(s.width), int(s.height)
	gl.ReadPixels(0, 0, s.width, s.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(s.pixels))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rowBytes := w * 4
	for y := 0; y < h; y++ {
		src := s.pixels[(h-1-y)*rowBytes : (h-y)*rowBytes]
		copy(img.Pix[y*rowBytes:], src)
	}
	return img
}

// Destroy releases GL and SDL resources in reverse init order
func (s *Surface) Destroy() {
	if s.terrainProgram != 0 {
		gl.DeleteProgram(s.terrainProgram)
	}
	if s.skyProgram != 0 {
		gl.DeleteProgram(s.skyProgram)
	}
	if s.terrainVAO != 0 {
		gl.DeleteVertexArrays(1, &s.terrainVAO)
	}
	if s.skyVAO != 0 {
		gl.DeleteVertexArrays(1, &s.skyVAO)
	}
	if s.glContext != nil {
		sdl.GLDeleteContext(s.glContext)
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
}

// compileProgram builds a vertex+fragment program, surfacing the
// driver's info log (with source spans) on failure
func compileProgram(vertexSource, fragmentSource string) (uint32, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
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

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed:\n%s", log)
	}
	return shader, nil
}
