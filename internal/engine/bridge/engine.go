// Package bridge drives the Mapbox GL map in the frontend over the event bus.
// Commands go out as events carrying Mapbox style specs; the frontend calls
// the matching map method. The map's "load" and "sourcedata" events come
// back the same way.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"

	"knp-timelapse/internal/mapview"
)

// Event names shared with the frontend
const (
	EventAddSource     = "mapview:add-source"
	EventAddLayer      = "mapview:add-layer"
	EventMoveLayer     = "mapview:move-layer"
	EventSetVisibility = "mapview:set-visibility"

	EventStyleLoaded = "mapview:style-loaded"
	EventSourceData  = "mapview:sourcedata"
)

var errEmptyID = errors.New("bridge: empty id")

// Engine implements mapview.Engine over a Bus
type Engine struct {
	bus Bus
	log *log.Entry

	mu      sync.Mutex
	cancels []func()
}

// New creates an engine that talks to the frontend through bus
func New(bus Bus) *Engine {
	return &Engine{
		bus: bus,
		log: log.WithField("component", "bridge"),
	}
}

func (e *Engine) AddImageSource(src mapview.ImageSource) error {
	if src.ID == "" {
		return errEmptyID
	}

	coords := make([][2]float64, 0, len(src.Coordinates))
	for _, p := range src.Coordinates {
		coords = append(coords, [2]float64{p.Lon(), p.Lat()})
	}

	e.bus.Emit(EventAddSource, map[string]interface{}{
		"id": src.ID,
		"source": map[string]interface{}{
			"type":        "image",
			"url":         src.URL,
			"coordinates": coords,
		},
	})
	return nil
}

func (e *Engine) AddRasterLayer(layer mapview.RasterLayer) error {
	if layer.ID == "" {
		return errEmptyID
	}

	e.bus.Emit(EventAddLayer, map[string]interface{}{
		"layer": map[string]interface{}{
			"id":     layer.ID,
			"source": layer.Source,
			"type":   "raster",
			"layout": map[string]interface{}{
				"visibility": string(layer.Visibility),
			},
			"paint": map[string]interface{}{
				"raster-opacity": layer.Opacity,
			},
		},
	})
	return nil
}

func (e *Engine) AddLineLayer(layer mapview.LineLayer) error {
	if layer.ID == "" {
		return errEmptyID
	}
	if layer.Geometry == nil {
		return fmt.Errorf("bridge: layer %s has no geometry", layer.ID)
	}

	e.bus.Emit(EventAddLayer, map[string]interface{}{
		"layer": map[string]interface{}{
			"id":   layer.ID,
			"type": "line",
			"source": map[string]interface{}{
				"type": "geojson",
				"data": geojson.NewFeature(layer.Geometry),
			},
			"layout": map[string]interface{}{},
			"paint": map[string]interface{}{
				"line-color": layer.Color,
				"line-width": layer.Width,
			},
		},
	})
	return nil
}

func (e *Engine) MoveLayer(id, beforeID string) error {
	if id == "" {
		return errEmptyID
	}

	e.bus.Emit(EventMoveLayer, map[string]interface{}{
		"id":       id,
		"beforeId": beforeID,
	})
	return nil
}

func (e *Engine) SetVisibility(id string, v mapview.Visibility) error {
	if id == "" {
		return errEmptyID
	}

	e.bus.Emit(EventSetVisibility, map[string]interface{}{
		"id":         id,
		"visibility": string(v),
	})
	return nil
}

func (e *Engine) OnStyleLoaded(fn func()) {
	cancel := e.bus.On(EventStyleLoaded, func(...interface{}) {
		fn()
	})
	e.track(cancel)
}

func (e *Engine) OnSourceData(fn func(mapview.SourceDataEvent)) {
	cancel := e.bus.On(EventSourceData, func(data ...interface{}) {
		ev, err := decodeSourceData(data)
		if err != nil {
			e.log.WithError(err).Warn("dropping malformed sourcedata event")
			return
		}
		fn(ev)
	})
	e.track(cancel)
}

// Close removes every subscription made through this engine
func (e *Engine) Close() {
	e.mu.Lock()
	cancels := e.cancels
	e.cancels = nil
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (e *Engine) track(cancel func()) {
	if cancel == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancels = append(e.cancels, cancel)
}

// decodeSourceData accepts the event payload as the frontend sends it, a
// JSON object that arrives as a generic map
func decodeSourceData(data []interface{}) (mapview.SourceDataEvent, error) {
	var ev mapview.SourceDataEvent
	if len(data) == 0 {
		return ev, errors.New("empty payload")
	}

	raw, err := json.Marshal(data[0])
	if err != nil {
		return ev, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, fmt.Errorf("failed to decode payload: %w", err)
	}
	return ev, nil
}
