package engine

import (
	"path/filepath"

	"vibesurfer/internal/analysis"
	"vibesurfer/internal/audio"
	"vibesurfer/internal/camera"
	"vibesurfer/internal/clock"
	"vibesurfer/internal/config"
	"vibesurfer/internal/debug"
	"vibesurfer/internal/render"
	"vibesurfer/internal/terrain"
)

// Engine wires the subsystems together and drives the frame loop. Three
// threads of control exist at runtime: the audio device's callback (oto
// pulls from the output adapter), the FFT worker goroutine, and the
// render loop on the main thread, which owns all GPU submission.
type Engine struct {
	Config *config.Config
	Logger *debug.Logger

	Shared    *analysis.Shared
	Synth     *audio.Synth
	Output    *audio.Output
	Capture   *audio.WAVCapture
	FFTWorker *analysis.Worker

	Preset  camera.Preset
	Grid    *terrain.Grid
	Compute *terrain.Compute
	Surface *render.Surface

	Recorder *render.Recorder

	Clock   clock.Clock
	Limiter *clock.FrameLimiter
	FPS     *clock.FPSCounter

	running bool
}

// WindowWidth and WindowHeight are the fixed presentation size
const (
	WindowWidth  = 1280
	WindowHeight = 720
)

// New constructs the engine. Construction order matters: the surface
// owns the GL context, so it exists before any GPU object; the camera
// preset may need the compute pipeline's height oracle. Any failure here
// is a fatal init error carrying the offending component's name.
func New(cfg *config.Config, logger *debug.Logger) (*Engine, error) {
	e := &Engine{Config: cfg, Logger: logger}

	grid, err := terrain.NewGrid(cfg.Physics.GridSide, cfg.Physics.GridSpacing)
	if err != nil {
		return nil, err
	}
	e.Grid = grid

	surface, err := render.NewSurface("vibesurfer", WindowWidth, WindowHeight, logger)
	if err != nil {
		return nil, err
	}
	e.Surface = surface

	compute, err := terrain.NewCompute(grid, logger)
	if err != nil {
		surface.Destroy()
		return nil, err
	}
	e.Compute = compute
	surface.BindTerrainBuffers(compute.VertexBuffer(), compute.IndexBuffer())

	preset, err := camera.NewPreset(cfg.Camera, compute.Oracle())
	if err != nil {
		e.destroyGPU()
		return nil, err
	}
	e.Preset = preset

	// Ring sized to several FFT windows so a late tick never starves
	e.Shared = analysis.NewShared(cfg.FFT.FFTSize * 8)
	e.Synth = audio.NewSynth(cfg.FFT.SampleRate)

	output, err := audio.NewOutput(cfg.FFT.SampleRate, e.Synth, e.Shared, logger)
	if err != nil {
		e.destroyGPU()
		return nil, err
	}
	e.Output = output

	e.FFTWorker = analysis.NewWorker(cfg.FFT, e.Shared, logger)

	if cfg.Recording.Enabled {
		rec, err := render.NewRecorder(cfg.Recording.OutputDir, cfg.Recording.DurationS, cfg.Recording.FPS, logger)
		if err != nil {
			e.destroyGPU()
			return nil, err
		}
		e.Recorder = rec
		e.Clock = clock.NewSteppedClock(cfg.Recording.FPS)

		if cfg.Recording.CaptureWAV {
			e.Capture = audio.NewWAVCapture(
				filepath.Join(cfg.Recording.OutputDir, "audio.wav"),
				cfg.FFT.SampleRate, cfg.Recording.DurationS)
			output.SetCapture(e.Capture)
		}
	} else {
		e.Clock = clock.NewWallClock()
	}

	e.Limiter = clock.NewFrameLimiter(60)
	if cfg.Recording.Enabled {
		// Recording paces by the stepped clock, not the wall clock
		e.Limiter.Enabled = false
	}
	e.FPS = clock.NewFPSCounter()

	logger.LogSystemf(debug.LogLevelInfo, "engine ready: preset=%s grid=%dx%d spacing=%.1fm",
		preset.Name(), grid.Side, grid.Side, grid.Spacing)

	return e, nil
}

// Run drives the frame loop until the user quits or a configured
// recording completes, then tears everything down. The first of the two
// exit conditions to fire wins.
func (e *Engine) Run() error {
	e.running = true

	e.Output.Start()
	e.FFTWorker.Start()

	_, isFloating := e.Preset.(*camera.Floating)

	for e.running {
		if e.Surface.PollQuit() {
			e.running = false
			break
		}

		t := e.Clock.Tick()

		// Complete last frame's readback before the camera asks for
		// heights
		e.Compute.PollReadback()

		if err := e.Frame(t, isFloating); err != nil {
			// A single bad frame is logged and retried next frame, never
			// propagated
			e.Logger.LogGPUf(debug.LogLevelError, "frame at t=%.3f failed: %v", t, err)
		}

		if e.Recorder != nil {
			img := e.Surface.CaptureFrame()
			if err := e.Recorder.Frame(img); err != nil {
				e.Logger.LogRenderf(debug.LogLevelError, "capture failed: %v", err)
			}
			if e.Recorder.Done() {
				e.running = false
			}
		}

		e.Surface.Present()
		e.Limiter.Wait()

		if e.FPS.Frame() {
			e.Logger.LogSystemf(debug.LogLevelDebug, "%.1f fps", e.FPS.FPS)
		}
	}

	return e.shutdown()
}

// shutdown stops the workers, flushes sinks, and releases resources in
// reverse init order. The FFT worker is joined before shared state is
// abandoned; the audio stream stops when the player closes.
func (e *Engine) shutdown() error {
	var firstErr error

	e.FFTWorker.Stop()

	if err := e.Output.Close(); err != nil {
		firstErr = err
	}
	if e.Capture != nil {
		if err := e.Capture.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	e.destroyGPU()

	e.Logger.LogSystemf(debug.LogLevelInfo, "engine stopped")
	return firstErr
}

func (e *Engine) destroyGPU() {
	if e.Compute != nil {
		e.Compute.Destroy()
		e.Compute = nil
	}
	if e.Surface != nil {
		e.Surface.Destroy()
		e.Surface = nil
	}
}
