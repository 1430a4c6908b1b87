// Package memory is an in-process map engine. It keeps the same source and
// layer registry a real engine does and lets callers fire its signals.
package memory

import (
	"fmt"
	"slices"
	"sync"

	"knp-timelapse/internal/mapview"
)

// Layer is a registered layer
type Layer struct {
	ID         string
	Type       string // "raster", "line" or "base"
	Source     string
	Visibility mapview.Visibility
	Opacity    float64
	Line       *mapview.LineLayer
}

// Call is one recorded engine operation
type Call struct {
	Op string
	ID string
}

// Engine implements mapview.Engine in memory
type Engine struct {
	mu      sync.Mutex
	sources map[string]mapview.ImageSource
	order   []string // source registration order
	layers  []*Layer // bottom to top
	calls   []Call

	styleLoaded []func()
	sourceData  []func(mapview.SourceDataEvent)
}

// New creates an engine whose style already contains baseLayers, bottom to top
func New(baseLayers ...string) *Engine {
	e := &Engine{sources: make(map[string]mapview.ImageSource)}
	for _, id := range baseLayers {
		e.layers = append(e.layers, &Layer{ID: id, Type: "base", Visibility: mapview.VisibilityVisible})
	}
	return e
}

// NewWithDefaultStyle creates an engine with a small street style that
// contains a waterway layer
func NewWithDefaultStyle() *Engine {
	return New("background", "landuse", "water", "waterway", "road", "place-label")
}

func (e *Engine) AddImageSource(src mapview.ImageSource) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, Call{Op: "addSource", ID: src.ID})
	if _, exists := e.sources[src.ID]; exists {
		return fmt.Errorf("there is already a source with id %q", src.ID)
	}
	e.sources[src.ID] = src
	e.order = append(e.order, src.ID)
	return nil
}

func (e *Engine) AddRasterLayer(layer mapview.RasterLayer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, Call{Op: "addLayer", ID: layer.ID})
	if e.indexLocked(layer.ID) >= 0 {
		return fmt.Errorf("layer %q already exists", layer.ID)
	}
	if _, ok := e.sources[layer.Source]; !ok {
		return fmt.Errorf("source %q not found", layer.Source)
	}
	e.layers = append(e.layers, &Layer{
		ID:         layer.ID,
		Type:       "raster",
		Source:     layer.Source,
		Visibility: layer.Visibility,
		Opacity:    layer.Opacity,
	})
	return nil
}

func (e *Engine) AddLineLayer(layer mapview.LineLayer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, Call{Op: "addLayer", ID: layer.ID})
	if e.indexLocked(layer.ID) >= 0 {
		return fmt.Errorf("layer %q already exists", layer.ID)
	}
	if layer.Geometry == nil {
		return fmt.Errorf("layer %q has no geometry", layer.ID)
	}
	l := layer
	e.layers = append(e.layers, &Layer{
		ID:         layer.ID,
		Type:       "line",
		Visibility: mapview.VisibilityVisible,
		Line:       &l,
	})
	return nil
}

func (e *Engine) MoveLayer(id, beforeID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, Call{Op: "moveLayer", ID: id})
	from := e.indexLocked(id)
	if from < 0 {
		return fmt.Errorf("layer %q not found", id)
	}
	if e.indexLocked(beforeID) < 0 {
		return fmt.Errorf("layer %q not found", beforeID)
	}

	l := e.layers[from]
	e.layers = slices.Delete(e.layers, from, from+1)
	to := e.indexLocked(beforeID)
	e.layers = slices.Insert(e.layers, to, l)
	return nil
}

func (e *Engine) SetVisibility(id string, v mapview.Visibility) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, Call{Op: "setVisibility", ID: id})
	i := e.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("layer %q not found", id)
	}
	e.layers[i].Visibility = v
	return nil
}

func (e *Engine) OnStyleLoaded(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.styleLoaded = append(e.styleLoaded, fn)
}

func (e *Engine) OnSourceData(fn func(mapview.SourceDataEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sourceData = append(e.sourceData, fn)
}

// FireStyleLoaded delivers the style-loaded signal to every subscriber
func (e *Engine) FireStyleLoaded() {
	e.mu.Lock()
	handlers := slices.Clone(e.styleLoaded)
	e.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// FireSourceData delivers one source data event to every subscriber
func (e *Engine) FireSourceData(ev mapview.SourceDataEvent) {
	e.mu.Lock()
	handlers := slices.Clone(e.sourceData)
	e.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// LoadImages reports pixel content for up to n registered image sources, in
// registration order, and returns how many were reported. A negative n
// loads all of them.
func (e *Engine) LoadImages(n int) int {
	e.mu.Lock()
	ids := slices.Clone(e.order)
	e.mu.Unlock()

	if n >= 0 && n < len(ids) {
		ids = ids[:n]
	}
	for _, id := range ids {
		e.FireSourceData(mapview.SourceDataEvent{
			SourceID:       id,
			SourceType:     mapview.SourceTypeImage,
			SourceDataType: mapview.SourceDataTypeContent,
		})
	}
	return len(ids)
}

// Sources returns the registered image sources in registration order
func (e *Engine) Sources() []mapview.ImageSource {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]mapview.ImageSource, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.sources[id])
	}
	return out
}

// Layers returns a snapshot of the layer stack, bottom to top
func (e *Engine) Layers() []Layer {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Layer, len(e.layers))
	for i, l := range e.layers {
		out[i] = *l
	}
	return out
}

// Layer returns the layer with id
func (e *Engine) Layer(id string) (Layer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexLocked(id)
	if i < 0 {
		return Layer{}, false
	}
	return *e.layers[i], true
}

// Visible returns the ids of visible raster layers, bottom to top
func (e *Engine) Visible() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ids []string
	for _, l := range e.layers {
		if l.Type == "raster" && l.Visibility == mapview.VisibilityVisible {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// Calls returns the recorded operations
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.calls)
}

// CountCalls returns how many recorded operations have op
func (e *Engine) CountCalls(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, c := range e.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ResetCalls clears the recorded operations
func (e *Engine) ResetCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *Engine) indexLocked(id string) int {
	return slices.IndexFunc(e.layers, func(l *Layer) bool { return l.ID == id })
}
