package site

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"knp-timelapse/internal/common"
)

// Validate reports structural problems in the site. Problems are returned as
// one joined error; the site stays usable, the map engine is the final judge
// of what it can render.
func (s *Site) Validate() error {
	var errs []error

	for _, key := range s.duplicates {
		errs = append(errs, fmt.Errorf("duplicate key %q: last value wins", key))
	}

	for _, d := range s.Data {
		if !common.ValidateISO8601(d.Date) {
			errs = append(errs, fmt.Errorf("date %q is not YYYY-MM-DD", d.Date))
		}
		if strings.Contains(d.Date, "/") {
			errs = append(errs, fmt.Errorf("date %q contains '/'", d.Date))
		}
		switch {
		case s.noTilesMeta[d.Date]:
			errs = append(errs, fmt.Errorf("date %q has no tilesMeta", d.Date))
		case len(d.Tiles) == 0:
			errs = append(errs, fmt.Errorf("date %q has no tiles", d.Date))
		}
		for _, t := range d.Tiles {
			if t.Name == "" {
				errs = append(errs, fmt.Errorf("date %q has a tile with an empty name", d.Date))
				continue
			}
			if strings.Contains(t.Name, "/") {
				errs = append(errs, fmt.Errorf("tile %q contains '/'", LayerID(d.Date, t.Name)))
			}
			if err := validateCorners(t.Corners); err != nil {
				errs = append(errs, fmt.Errorf("tile %q: %w", LayerID(d.Date, t.Name), err))
			}
		}
	}

	if _, err := s.BoundaryGeometry(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateCorners(c Corners) error {
	for i, p := range c.Coordinates() {
		lon, lat := p.Lon(), p.Lat()
		if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
			return fmt.Errorf("corner %d is not finite", i)
		}
		if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
			return fmt.Errorf("corner %d (%g, %g) is outside lon/lat range", i, lon, lat)
		}
	}
	return nil
}
