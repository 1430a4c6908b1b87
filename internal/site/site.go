package site

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/samber/lo"
)

// ErrNoBoundary is returned when the site has no boundary feature to outline
var ErrNoBoundary = errors.New("site has no boundary feature")

// Corners positions one tile image on the map. Each corner is [lon, lat].
type Corners struct {
	TopLeft     orb.Point `json:"topLeft"`
	TopRight    orb.Point `json:"topRight"`
	BottomRight orb.Point `json:"bottomRight"`
	BottomLeft  orb.Point `json:"bottomLeft"`
}

// Coordinates returns the corners in the order image sources expect them:
// top-left, top-right, bottom-right, bottom-left.
func (c Corners) Coordinates() [4]orb.Point {
	return [4]orb.Point{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}
}

// Bound returns the bounding box of the four corners
func (c Corners) Bound() orb.Bound {
	ring := orb.Ring{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}
	return ring.Bound()
}

// Tile is a single georeferenced image of one date
type Tile struct {
	Name    string  `json:"name"`
	Corners Corners `json:"corners"`
}

// DateTiles holds the tiles captured on one date, in document order
type DateTiles struct {
	Date  string `json:"date"`
	Tiles []Tile `json:"tiles"`
}

// LayerRef identifies one (date, tile) overlay
type LayerRef struct {
	ID      string
	Date    string
	Tile    string
	Corners Corners
}

// Site is the overlay input: date-stamped tiles plus a boundary outline.
// Date and tile order follow the key order of the source document.
type Site struct {
	Data     []DateTiles                `json:"data"`
	Boundary *geojson.FeatureCollection `json:"boundary,omitempty"`

	// keys that appeared more than once in the document, reported by Validate
	duplicates []string
	// dates whose value had no tilesMeta object
	noTilesMeta map[string]bool
}

// TileCount returns the total number of (date, tile) pairs
func (s *Site) TileCount() int {
	return lo.SumBy(s.Data, func(d DateTiles) int { return len(d.Tiles) })
}

// Dates returns the date keys in document order
func (s *Site) Dates() []string {
	return lo.Map(s.Data, func(d DateTiles, _ int) string { return d.Date })
}

// HasDate reports whether date is one of the site's keys
func (s *Site) HasDate(date string) bool {
	return lo.ContainsBy(s.Data, func(d DateTiles) bool { return d.Date == date })
}

// Layers flattens the site into one LayerRef per tile, dates outermost
func (s *Site) Layers() []LayerRef {
	refs := make([]LayerRef, 0, s.TileCount())
	for _, d := range s.Data {
		for _, t := range d.Tiles {
			refs = append(refs, LayerRef{
				ID:      LayerID(d.Date, t.Name),
				Date:    d.Date,
				Tile:    t.Name,
				Corners: t.Corners,
			})
		}
	}
	return refs
}

// Extent returns the bounding box of every tile of every date. It is false
// when the site has no tiles.
func (s *Site) Extent() (orb.Bound, bool) {
	var (
		b  orb.Bound
		ok bool
	)
	for _, l := range s.Layers() {
		if !ok {
			b, ok = l.Corners.Bound(), true
			continue
		}
		b = b.Union(l.Corners.Bound())
	}
	return b, ok
}

// BoundaryGeometry returns the geometry of the first boundary feature
func (s *Site) BoundaryGeometry() (orb.Geometry, error) {
	if s.Boundary == nil || len(s.Boundary.Features) == 0 {
		return nil, ErrNoBoundary
	}
	geom := s.Boundary.Features[0].Geometry
	if geom == nil {
		return nil, ErrNoBoundary
	}
	return geom, nil
}

type rawSite struct {
	Data     json.RawMessage `json:"data"`
	Boundary json.RawMessage `json:"boundary"`
}

type rawDate struct {
	TilesMeta json.RawMessage `json:"tilesMeta"`
}

// Decode reads a site document
func Decode(r io.Reader) (*Site, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read site: %w", err)
	}

	var rs rawSite
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse site: %w", err)
	}

	s := &Site{noTilesMeta: make(map[string]bool)}

	err = decodeOrderedObject(rs.Data, func(date string, val json.RawMessage, dup bool) error {
		var rd rawDate
		if err := json.Unmarshal(val, &rd); err != nil {
			return fmt.Errorf("date %q: %w", date, err)
		}

		tm := bytes.TrimSpace(rd.TilesMeta)
		s.noTilesMeta[date] = len(tm) == 0 || bytes.Equal(tm, []byte("null"))

		dt := DateTiles{Date: date, Tiles: []Tile{}}
		err := decodeOrderedObject(rd.TilesMeta, func(name string, val json.RawMessage, dup bool) error {
			var c Corners
			if err := json.Unmarshal(val, &c); err != nil {
				return fmt.Errorf("tile %q: %w", name, err)
			}
			if dup {
				s.duplicates = append(s.duplicates, LayerID(date, name))
				replaceTile(&dt, Tile{Name: name, Corners: c})
				return nil
			}
			dt.Tiles = append(dt.Tiles, Tile{Name: name, Corners: c})
			return nil
		})
		if err != nil {
			return fmt.Errorf("date %q tilesMeta: %w", date, err)
		}

		if dup {
			s.duplicates = append(s.duplicates, date)
			replaceDate(s, dt)
			return nil
		}
		s.Data = append(s.Data, dt)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse site data: %w", err)
	}

	if len(bytes.TrimSpace(rs.Boundary)) > 0 && !bytes.Equal(bytes.TrimSpace(rs.Boundary), []byte("null")) {
		fc, err := geojson.UnmarshalFeatureCollection(rs.Boundary)
		if err != nil {
			return nil, fmt.Errorf("failed to parse site boundary: %w", err)
		}
		s.Boundary = fc
	}

	return s, nil
}

// Load reads a site document from disk
func Load(path string) (*Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open site file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// A repeated key keeps its first position and takes the last value,
// matching how the site documents behave in a browser.
func replaceDate(s *Site, dt DateTiles) {
	for i := range s.Data {
		if s.Data[i].Date == dt.Date {
			s.Data[i] = dt
			return
		}
	}
}

func replaceTile(dt *DateTiles, t Tile) {
	for i := range dt.Tiles {
		if dt.Tiles[i].Name == t.Name {
			dt.Tiles[i] = t
			return
		}
	}
}
