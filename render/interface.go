package render

// Renderer draws one part of the frame into the buffer
type Renderer interface {
	Render(f *Frame, buf *Buffer)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}
