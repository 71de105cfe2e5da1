package systems

import (
	"ebiten-dungeon/components"
	"ebiten-dungeon/ecs"
)

// Zoom limits in screen pixels per world pixel
const (
	MinZoom = 0.05
	MaxZoom = 8
)

// CameraSystem handles viewport positioning and scrolling
type CameraSystem struct {
	world         *ecs.World
	width, height int
}

// NewCameraSystem creates a camera system for a screen of the given size
// and subscribes it to pan and zoom requests
func NewCameraSystem(world *ecs.World, width, height int) *CameraSystem {
	s := &CameraSystem{world: world, width: width, height: height}

	em := world.GetEventManager()
	em.Subscribe(EventPan, func(e ecs.Event) {
		pan := e.(PanEvent)
		if camera := s.camera(); camera != nil {
			camera.AutoFit = false
			camera.X += pan.DX / camera.Zoom
			camera.Y += pan.DY / camera.Zoom
		}
	})
	em.Subscribe(EventZoom, func(e ecs.Event) {
		if camera := s.camera(); camera != nil {
			camera.AutoFit = false
			cx, cy := camera.ScreenToWorld(float64(s.width)/2, float64(s.height)/2)
			camera.Zoom = max(MinZoom, min(MaxZoom, camera.Zoom*e.(ZoomEvent).Factor))
			camera.CenterOn(cx, cy, s.width, s.height)
		}
	})
	refit := func(ecs.Event) {
		if camera := s.camera(); camera != nil {
			camera.AutoFit = true
		}
	}
	em.Subscribe(EventRunStarted, refit)
	em.Subscribe(EventActiveChanged, refit)
	return s
}

// SetScreenSize updates the viewport size in screen pixels
func (s *CameraSystem) SetScreenSize(width, height int) {
	s.width, s.height = width, height
}

// ScreenSize returns the viewport size in screen pixels
func (s *CameraSystem) ScreenSize() (int, int) { return s.width, s.height }

// Update frames the active layout while the camera is auto fitting
func (s *CameraSystem) Update(world *ecs.World, dt float64) {
	cameraEntity, ok := world.FirstWithTag("camera")
	if !ok {
		return
	}
	comp, ok := world.GetComponent(cameraEntity.ID, components.Camera)
	if !ok {
		return
	}
	camera := comp.(*components.CameraComponent)
	if !camera.AutoFit {
		return
	}

	active, ok := world.FirstWithTag("active")
	if !ok {
		return
	}
	layoutComp, ok := world.GetComponent(active.ID, components.Layout)
	if !ok {
		return
	}

	oldX, oldY, oldZoom := camera.X, camera.Y, camera.Zoom
	camera.FitTo(layoutComp.(*components.LayoutComponent).Bounds(), s.width, s.height)
	camera.Zoom = max(MinZoom, min(MaxZoom, camera.Zoom))

	if oldX != camera.X || oldY != camera.Y || oldZoom != camera.Zoom {
		world.GetEventManager().Post(CameraUpdateEvent{
			CameraID: cameraEntity.ID,
			X:        camera.X,
			Y:        camera.Y,
			Zoom:     camera.Zoom,
		})
	}
}

// WorldToScreen converts world coordinates to screen coordinates
func (s *CameraSystem) WorldToScreen(worldX, worldY float64) (float64, float64) {
	camera := s.camera()
	if camera == nil {
		// If no camera, just pass through the coordinates
		return worldX, worldY
	}
	return camera.WorldToScreen(worldX, worldY)
}

// ScreenToWorld converts screen coordinates to world coordinates
func (s *CameraSystem) ScreenToWorld(screenX, screenY float64) (float64, float64) {
	camera := s.camera()
	if camera == nil {
		return screenX, screenY
	}
	return camera.ScreenToWorld(screenX, screenY)
}

func (s *CameraSystem) camera() *components.CameraComponent {
	entity, ok := s.world.FirstWithTag("camera")
	if !ok {
		return nil
	}
	if comp, ok := s.world.GetComponent(entity.ID, components.Camera); ok {
		return comp.(*components.CameraComponent)
	}
	return nil
}
