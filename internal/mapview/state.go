package mapview

import "knp-timelapse/internal/site"

// Viewport is the camera state of the map
type Viewport struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Zoom      float64 `json:"zoom"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// State is everything the view knows about the map. It only changes through
// Reduce.
type State struct {
	Viewport    Viewport `json:"viewport"`
	CurrentDate string   `json:"currentDate"`

	StyleLoaded  bool `json:"styleLoaded"`
	ImageCount   int  `json:"imageCount"`
	LoadedImages int  `json:"loadedImages"`
	ImagesLoaded bool `json:"imagesLoaded"`
}

// Ready reports whether overlay visibility may be synchronized
func (s State) Ready() bool {
	return s.StyleLoaded && s.ImagesLoaded
}

// ShowProgress reports whether the progress indicator is shown.
// With zero tiles this stays true forever.
func (s State) ShowProgress() bool {
	return !s.ImagesLoaded
}

// Event is a state transition input
type Event interface {
	isEvent()
}

// StyleLoaded records that overlays were registered on a freshly loaded style
type StyleLoaded struct {
	TileCount int
}

// ImageLoaded records one image source receiving its pixel content
type ImageLoaded struct{}

// ViewportChanged replaces the viewport with what the engine reported
type ViewportChanged struct {
	Viewport Viewport
}

// Resized updates the canvas size after a container resize
type Resized struct {
	Width  int
	Height int
}

// DateSelected changes which date's tiles are shown
type DateSelected struct {
	Date string
}

func (StyleLoaded) isEvent()     {}
func (ImageLoaded) isEvent()     {}
func (ViewportChanged) isEvent() {}
func (Resized) isEvent()         {}
func (DateSelected) isEvent()    {}

// Reduce returns the state after applying e to s
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case StyleLoaded:
		// only from the uninitialized state
		if s.StyleLoaded {
			return s
		}
		s.StyleLoaded = true
		s.ImageCount = e.TileCount
		s.ImagesLoaded = imagesComplete(s)

	case ImageLoaded:
		s.LoadedImages++
		if !s.ImagesLoaded {
			s.ImagesLoaded = imagesComplete(s)
		}

	case ViewportChanged:
		s.Viewport = e.Viewport

	case Resized:
		s.Viewport.Width = e.Width
		s.Viewport.Height = e.Height

	case DateSelected:
		s.CurrentDate = e.Date
	}
	return s
}

// imagesComplete never holds for zero tiles: no image source means no load
// signal ever arrives, and the view waits indefinitely.
func imagesComplete(s State) bool {
	return s.StyleLoaded && s.ImageCount > 0 && s.LoadedImages >= s.ImageCount
}

// LayerVisibility is the desired visibility of one tile layer
type LayerVisibility struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"`
	Visibility Visibility `json:"visibility"`
}

// Visibilities computes the visibility of every tile layer of st, in site
// order. It returns nil while the state is not Ready.
func Visibilities(s State, st *site.Site) []LayerVisibility {
	if !s.Ready() {
		return nil
	}

	layers := st.Layers()
	out := make([]LayerVisibility, 0, len(layers))
	for _, l := range layers {
		v := VisibilityNone
		if l.Date == s.CurrentDate {
			v = VisibilityVisible
		}
		out = append(out, LayerVisibility{ID: l.ID, Date: l.Date, Visibility: v})
	}
	return out
}

// VisibleLayers returns the ids of the layers that should be visible
func VisibleLayers(s State, st *site.Site) map[string]bool {
	visible := make(map[string]bool)
	for _, lv := range Visibilities(s, st) {
		if lv.Visibility == VisibilityVisible {
			visible[lv.ID] = true
		}
	}
	return visible
}
