package site

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestLoadPreservesDocumentOrder(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "site.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := s.Dates(), []string{"2020-01-02", "2020-01-01"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Dates() = %v, want %v", got, want)
	}

	var ids []string
	for _, l := range s.Layers() {
		ids = append(ids, l.ID)
	}
	want := []string{"2020-01-02/B", "2020-01-02/A", "2020-01-01/A"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Layers() ids = %v, want %v", ids, want)
	}

	if s.TileCount() != 3 {
		t.Errorf("TileCount() = %d, want 3", s.TileCount())
	}
	if !s.HasDate("2020-01-01") || s.HasDate("2021-01-01") {
		t.Error("HasDate returned wrong result")
	}

	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestCornersCoordinatesOrder(t *testing.T) {
	c := Corners{
		TopLeft:     orb.Point{1, 4},
		TopRight:    orb.Point{2, 4},
		BottomRight: orb.Point{2, 3},
		BottomLeft:  orb.Point{1, 3},
	}
	want := [4]orb.Point{{1, 4}, {2, 4}, {2, 3}, {1, 3}}
	if got := c.Coordinates(); got != want {
		t.Errorf("Coordinates() = %v, want %v", got, want)
	}

	b := c.Bound()
	if b.Min != (orb.Point{1, 3}) || b.Max != (orb.Point{2, 4}) {
		t.Errorf("Bound() = %v", b)
	}
}

func TestDecodeBoundaryGeometry(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "site.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	geom, err := s.BoundaryGeometry()
	if err != nil {
		t.Fatalf("BoundaryGeometry: %v", err)
	}
	if _, ok := geom.(orb.Polygon); !ok {
		t.Errorf("expected polygon boundary, got %T", geom)
	}
}

func TestDecodeEmptySite(t *testing.T) {
	s, err := Decode(strings.NewReader(`{"data": {}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.TileCount() != 0 {
		t.Errorf("TileCount() = %d, want 0", s.TileCount())
	}
	if _, err := s.BoundaryGeometry(); !errors.Is(err, ErrNoBoundary) {
		t.Errorf("expected ErrNoBoundary, got %v", err)
	}
	if err := s.Validate(); !errors.Is(err, ErrNoBoundary) {
		t.Errorf("Validate should report missing boundary, got %v", err)
	}
}

func TestDecodeDateWithoutTiles(t *testing.T) {
	s, err := Decode(strings.NewReader(`{"data": {"2020-01-01": {}}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.Data) != 1 || len(s.Data[0].Tiles) != 0 {
		t.Errorf("unexpected data: %+v", s.Data)
	}
}

func TestValidateReportsDatesWithoutTiles(t *testing.T) {
	doc := `{"data": {
		"2020-01-01": null,
		"2020-01-02": {},
		"2020-01-03": {"tilesMeta": {}},
		"2020-01-04": {"tilesMeta": {"A": {"topLeft": [31, -24], "topRight": [31.5, -24], "bottomRight": [31.5, -24.5], "bottomLeft": [31, -24.5]}}}
	}}`
	s, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	err = s.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{
		`date "2020-01-01" has no tilesMeta`,
		`date "2020-01-02" has no tilesMeta`,
		`date "2020-01-03" has no tiles`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %v", want, err)
		}
	}
	if strings.Contains(err.Error(), "2020-01-04") {
		t.Errorf("date with tiles reported: %v", err)
	}
}

func TestExtent(t *testing.T) {
	if _, ok := (&Site{}).Extent(); ok {
		t.Error("empty site has an extent")
	}

	s, err := Load(filepath.Join("testdata", "site.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, ok := s.Extent()
	if !ok || b.Min != (orb.Point{31, -24.5}) || b.Max != (orb.Point{32, -24}) {
		t.Errorf("Extent() = %v, %v", b, ok)
	}
}

func TestDecodeDuplicateKeys(t *testing.T) {
	doc := `{"data": {
		"2020-01-01": {"tilesMeta": {"A": {"topLeft": [1, 1]}}},
		"2020-01-02": {"tilesMeta": {}},
		"2020-01-01": {"tilesMeta": {"C": {"topLeft": [2, 2]}}}
	}}`

	s, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got, want := s.Dates(), []string{"2020-01-01", "2020-01-02"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Dates() = %v, want %v", got, want)
	}
	if got := s.Data[0].Tiles; len(got) != 1 || got[0].Name != "C" {
		t.Errorf("last value should win, got %+v", got)
	}

	err = s.Validate()
	if err == nil || !strings.Contains(err.Error(), `duplicate key "2020-01-01"`) {
		t.Errorf("Validate should report the duplicate, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"data not object", `{"data": []}`},
		{"tilesMeta not object", `{"data": {"2020-01-01": {"tilesMeta": 3}}}`},
		{"corner not array", `{"data": {"2020-01-01": {"tilesMeta": {"A": {"topLeft": "x"}}}}}`},
		{"bad boundary", `{"data": {}, "boundary": {"type": "Feature"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateReportsBadTiles(t *testing.T) {
	s := &Site{Data: []DateTiles{
		{Date: "01/01/2020", Tiles: []Tile{{Name: "A"}}},
		{Date: "2020-01-02", Tiles: []Tile{
			{Name: ""},
			{Name: "x/y"},
			{Name: "far", Corners: Corners{TopLeft: orb.Point{200, 0}}},
		}},
	}}

	err := s.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{
		`date "01/01/2020" is not YYYY-MM-DD`,
		"empty name",
		`tile "2020-01-02/x/y" contains '/'`,
		"outside lon/lat range",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %v", want, err)
		}
	}
}
