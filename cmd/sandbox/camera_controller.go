package main

import (
	"math"

	"github.com/hubastard/biscuit/engine/core"
	"github.com/hubastard/biscuit/engine/scene"
)

// CameraController: arrows move, Q/E rotate, scroll zooms, R resets.
type CameraController struct {
	MoveSpeed float32 // world units per second
	RotSpeed  float32 // radians per second
	ZoomSpeed float32 // factor per scroll notch
	Camera    *scene.Camera2D
}

func NewCameraController(cam *scene.Camera2D) *CameraController {
	return &CameraController{
		MoveSpeed: 400,
		RotSpeed:  1.5,
		ZoomSpeed: 1.1,
		Camera:    cam,
	}
}

func (cc *CameraController) Update(in *core.Input, dt float32) {
	speed := cc.MoveSpeed * dt / cc.Camera.Zoom()
	rotSpeed := cc.RotSpeed * dt

	if in.IsKeyDown(core.KeyUp) {
		cc.Camera.Move(0, speed)
	}
	if in.IsKeyDown(core.KeyDown) {
		cc.Camera.Move(0, -speed)
	}
	if in.IsKeyDown(core.KeyLeft) {
		cc.Camera.Move(-speed, 0)
	}
	if in.IsKeyDown(core.KeyRight) {
		cc.Camera.Move(speed, 0)
	}
	if in.IsKeyDown(core.KeyQ) {
		cc.Camera.Rotate(rotSpeed)
	}
	if in.IsKeyDown(core.KeyE) {
		cc.Camera.Rotate(-rotSpeed)
	}
	if in.IsKeyDown(core.KeyR) {
		cc.Camera.Position.Set(0, 0)
		cc.Camera.Rotation = 0
		cc.Camera.SetZoom(1)
	}

	if _, y := in.Scroll(); y != 0 {
		cc.Camera.SetZoom(cc.Camera.Zoom() * float32(math.Pow(float64(cc.ZoomSpeed), y)))
	}
}
