package viewport

// Pick returns the cell under a display-space pointer position.
func (t *Tiler) Pick(cam CameraState, displayX, displayY float64) GridCell {
	scene := cam.DisplayToScene(ScreenPoint{X: displayX, Y: displayY},
		t.cfg.ViewportWidth, t.cfg.ViewportHeight)
	gx, gy := t.ScreenToGrid(scene)
	return t.Cell(gx, gy)
}

// DisplayPoint returns where a grid cell's center lands on the display.
func (t *Tiler) DisplayPoint(cam CameraState, gx, gy int) ScreenPoint {
	return cam.SceneToDisplay(t.ProjectToScreen(gx, gy), t.cfg.ViewportWidth, t.cfg.ViewportHeight)
}
