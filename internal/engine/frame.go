package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"vibesurfer/internal/analysis"
	"vibesurfer/internal/camera"
	"vibesurfer/internal/terrain"
)

// Projection constants for the view frustum
const (
	fovDegrees = 60.0
	nearPlane  = 0.5
	farPlane   = 4000.0
)

// Frame runs the per-frame uniform and dispatch sequence:
// bands snapshot → reactive mapping → camera pose → parameter block →
// compute dispatch → view-projection → render pass handoff.
func (e *Engine) Frame(t float64, isFloating bool) error {
	bands := e.Shared.SnapshotBands()
	visual := analysis.MapBands(bands, e.Config.Physics, e.Config.Mapping)
	pose := e.Preset.Pose(t)

	params := e.buildParams(pose, visual, t)
	e.Compute.Dispatch(&params)

	if isFloating {
		// At most one readback in flight; a busy pipeline drops the
		// request and the oracle keeps its last observed heights
		e.Compute.RequestReadback()
	}

	viewProj := viewProjection(pose)
	e.Surface.Frame(
		int32(e.Grid.IndexCount()),
		viewProj,
		float32(visual.Amplitude),
		float32(visual.Frequency),
		float32(visual.LineWidth),
		float32(t),
	)
	return nil
}

// buildParams populates the terrain parameter block for one dispatch
func (e *Engine) buildParams(pose camera.Pose, visual analysis.Visual, t float64) terrain.Params {
	phys := e.Config.Physics
	return terrain.Params{
		BaseAmplitude:   float32(phys.BaseTerrainAmplitude),
		BaseFrequency:   float32(phys.BaseTerrainFrequency),
		DetailAmplitude: float32(visual.Amplitude),
		DetailFrequency: float32(visual.Frequency),
		CameraPos: [3]float32{
			float32(pose.Eye.X()),
			float32(pose.Eye.Y()),
			float32(pose.Eye.Z()),
		},
		GridSide:    e.Grid.Side,
		GridSpacing: float32(phys.GridSpacing),
		Time:        float32(t * phys.WaveSpeed),
	}
}

// viewProjection builds the frame's combined matrix from the camera pose
func viewProjection(pose camera.Pose) mgl32.Mat4 {
	eye := mgl32.Vec3{float32(pose.Eye.X()), float32(pose.Eye.Y()), float32(pose.Eye.Z())}
	target := mgl32.Vec3{float32(pose.Target.X()), float32(pose.Target.Y()), float32(pose.Target.Z())}
	up := mgl32.Vec3{0, 1, 0}

	view := mgl32.LookAtV(eye, target, up)
	proj := mgl32.Perspective(
		mgl32.DegToRad(fovDegrees),
		float32(WindowWidth)/float32(WindowHeight),
		nearPlane,
		farPlane,
	)
	return proj.Mul4(view)
}
