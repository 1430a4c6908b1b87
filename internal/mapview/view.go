package mapview

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"knp-timelapse/internal/site"
)

// ErrAlreadyInitialized is returned when overlays were already registered
var ErrAlreadyInitialized = errors.New("overlays already registered")

// Options configures how overlays are registered and the initial state
type Options struct {
	// ReferenceLayer is the base style layer tile layers are inserted below
	ReferenceLayer string

	BoundaryLayerID string
	BoundaryColor   string
	BoundaryWidth   float64
	RasterOpacity   float64

	InitialViewport Viewport
	InitialDate     string

	// OnChange is called after every state transition while the view lock is
	// held, so states arrive in transition order. It must not call back into
	// the view.
	OnChange func(State)
}

// DefaultOptions returns the options of the Kruger National Park viewer
func DefaultOptions() Options {
	return Options{
		ReferenceLayer:  "waterway",
		BoundaryLayerID: "zaf-boundary",
		BoundaryColor:   "#ff7f0e",
		BoundaryWidth:   2,
		RasterOpacity:   1,
		InitialViewport: Viewport{
			Zoom:      6,
			Latitude:  -23.92,
			Longitude: 31.65,
		},
	}
}

// View drives a map engine from the view state. All transitions go through
// one lock, which stands in for the UI event loop.
type View struct {
	mu         sync.Mutex
	site       *site.Site
	engine     Engine
	opts       Options
	state      State
	registered bool
	log        *log.Entry
}

// New creates a view over st and subscribes it to the engine's signals
func New(st *site.Site, engine Engine, opts Options) *View {
	v := &View{
		site:   st,
		engine: engine,
		opts:   opts,
		state: State{
			Viewport:    opts.InitialViewport,
			CurrentDate: opts.InitialDate,
		},
		log: log.WithField("component", "mapview"),
	}

	engine.OnStyleLoaded(v.handleStyleLoaded)
	engine.OnSourceData(v.handleSourceData)
	return v
}

// State returns a copy of the current state
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Dispatch applies e and runs a render pass
func (v *View) Dispatch(e Event) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dispatchLocked(e)
}

// SelectDate shows the tiles of date and hides all others once loaded.
// A date the site does not contain hides everything.
func (v *View) SelectDate(date string) State {
	if !v.site.HasDate(date) {
		v.log.WithField("date", date).Debug("no tiles for selected date")
	}
	return v.Dispatch(DateSelected{Date: date})
}

// SetViewport replaces the viewport with the engine's
func (v *View) SetViewport(vp Viewport) State {
	return v.Dispatch(ViewportChanged{Viewport: vp})
}

// Resize updates the canvas size
func (v *View) Resize(width, height int) State {
	return v.Dispatch(Resized{Width: width, Height: height})
}

// Render runs a render pass without a state change
func (v *View) Render() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renderLocked()
}

// Initialize registers one image source and one hidden raster layer per
// tile, then the boundary outline on top. It runs at most once per view.
func (v *View) Initialize() error {
	v.mu.Lock()
	if v.registered {
		v.mu.Unlock()
		return ErrAlreadyInitialized
	}
	v.registered = true

	count, err := v.registerOverlays()
	if err != nil {
		v.mu.Unlock()
		return err
	}
	v.dispatchLocked(StyleLoaded{TileCount: count})
	v.mu.Unlock()

	v.log.WithField("tiles", count).Info("overlays registered")
	return nil
}

func (v *View) registerOverlays() (int, error) {
	count := 0
	for _, l := range v.site.Layers() {
		err := v.engine.AddImageSource(ImageSource{
			ID:          l.ID,
			URL:         site.AssetPath(l.Date, l.Tile),
			Coordinates: l.Corners.Coordinates(),
		})
		if err != nil {
			return count, fmt.Errorf("failed to add image source %s: %w", l.ID, err)
		}

		err = v.engine.AddRasterLayer(RasterLayer{
			ID:         l.ID,
			Source:     l.ID,
			Visibility: VisibilityNone,
			Opacity:    v.opts.RasterOpacity,
		})
		if err != nil {
			return count, fmt.Errorf("failed to add raster layer %s: %w", l.ID, err)
		}

		if err := v.engine.MoveLayer(l.ID, v.opts.ReferenceLayer); err != nil {
			return count, fmt.Errorf("failed to move layer %s below %s: %w", l.ID, v.opts.ReferenceLayer, err)
		}
		count++
	}

	geom, err := v.site.BoundaryGeometry()
	if err != nil {
		return count, err
	}
	err = v.engine.AddLineLayer(LineLayer{
		ID:       v.opts.BoundaryLayerID,
		Geometry: geom,
		Color:    v.opts.BoundaryColor,
		Width:    v.opts.BoundaryWidth,
	})
	if err != nil {
		return count, fmt.Errorf("failed to add boundary layer: %w", err)
	}

	return count, nil
}

func (v *View) dispatchLocked(e Event) State {
	before := v.state
	v.state = Reduce(v.state, e)

	if !before.ImagesLoaded && v.state.ImagesLoaded {
		v.log.WithField("images", v.state.ImageCount).Info("all overlay images loaded")
	}

	v.renderLocked()
	if v.opts.OnChange != nil {
		v.opts.OnChange(v.state)
	}
	return v.state
}

// renderLocked synchronizes every tile layer's visibility with the current
// date, one engine call per layer. Nothing happens until style and images
// are loaded.
func (v *View) renderLocked() {
	for _, lv := range Visibilities(v.state, v.site) {
		if err := v.engine.SetVisibility(lv.ID, lv.Visibility); err != nil {
			v.log.WithError(err).WithField("layer", lv.ID).Warn("failed to set layer visibility")
		}
	}
}

func (v *View) handleStyleLoaded() {
	err := v.Initialize()
	if errors.Is(err, ErrAlreadyInitialized) {
		v.log.Warn("style loaded again, overlays are kept")
		return
	}
	if err != nil {
		v.log.WithError(err).Error("failed to register overlays")
	}
}

func (v *View) handleSourceData(ev SourceDataEvent) {
	if !ev.IsImageContent() {
		return
	}

	s := v.Dispatch(ImageLoaded{})
	v.log.WithFields(log.Fields{
		"source": ev.SourceID,
		"loaded": s.LoadedImages,
		"total":  s.ImageCount,
	}).Debug("overlay image loaded")
}
