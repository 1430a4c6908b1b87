package mapview

import "github.com/paulmach/orb"

// Visibility is the layout visibility of a layer
type Visibility string

const (
	VisibilityVisible Visibility = "visible"
	VisibilityNone    Visibility = "none"
)

// Source types and source data types reported by the engine
const (
	SourceTypeImage       = "image"
	SourceDataTypeContent = "content"
)

// ImageSource is a georeferenced image registered with the engine
type ImageSource struct {
	ID          string
	URL         string
	Coordinates [4]orb.Point // top-left, top-right, bottom-right, bottom-left
}

// RasterLayer renders an image source
type RasterLayer struct {
	ID         string
	Source     string
	Visibility Visibility
	Opacity    float64
}

// LineLayer outlines a geometry. Its GeoJSON source is created inline.
type LineLayer struct {
	ID       string
	Geometry orb.Geometry
	Color    string
	Width    float64
}

// SourceDataEvent is reported by the engine whenever a source's data changes
type SourceDataEvent struct {
	SourceID       string `json:"sourceId"`
	SourceType     string `json:"sourceType"`
	SourceDataType string `json:"sourceDataType"`
}

// IsImageContent reports whether the event carries newly fetched pixels of an
// image source
func (e SourceDataEvent) IsImageContent() bool {
	return e.SourceType == SourceTypeImage && e.SourceDataType == SourceDataTypeContent
}

// Engine is the subset of the map rendering engine the view drives
type Engine interface {
	AddImageSource(src ImageSource) error
	AddRasterLayer(layer RasterLayer) error
	AddLineLayer(layer LineLayer) error

	// MoveLayer places id directly below beforeID
	MoveLayer(id, beforeID string) error

	SetVisibility(id string, v Visibility) error

	OnStyleLoaded(fn func())
	OnSourceData(fn func(SourceDataEvent))
}
