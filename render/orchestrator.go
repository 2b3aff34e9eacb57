package render

import (
	"sort"

	"github.com/gdamore/tcell/v2"
)

type rendererEntry struct {
	renderer Renderer
	priority Priority
	index    int // registration order for stable sort
}

// Orchestrator runs the registered renderers into one buffer and shows it
type Orchestrator struct {
	screen    tcell.Screen
	buffer    *Buffer
	renderers []rendererEntry
	regCount  int
}

// NewOrchestrator creates an orchestrator sized to the screen
func NewOrchestrator(screen tcell.Screen) *Orchestrator {
	w, h := screen.Size()
	return &Orchestrator{
		screen:    screen,
		buffer:    NewBuffer(w, h),
		renderers: make([]rendererEntry, 0, 4),
	}
}

// Register adds a renderer at the specified priority
func (o *Orchestrator) Register(r Renderer, priority Priority) {
	o.renderers = append(o.renderers, rendererEntry{renderer: r, priority: priority, index: o.regCount})
	o.regCount++
	sort.SliceStable(o.renderers, func(i, j int) bool {
		return o.renderers[i].priority < o.renderers[j].priority
	})
}

// Size returns the current buffer size
func (o *Orchestrator) Size() (int, int) {
	return o.buffer.Bounds()
}

// Resize follows the screen size and forces a full redraw
func (o *Orchestrator) Resize() {
	w, h := o.screen.Size()
	o.buffer.Resize(w, h)
	o.screen.Sync()
}

// RenderFrame clears the buffer, runs every visible renderer and shows the result
func (o *Orchestrator) RenderFrame(f *Frame) {
	o.buffer.Clear()
	for _, entry := range o.renderers {
		if vt, ok := entry.renderer.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		entry.renderer.Render(f, o.buffer)
	}
	o.buffer.Flush(o.screen)
	o.screen.Show()
}
