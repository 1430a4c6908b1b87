package memory

import (
	"reflect"
	"testing"

	"github.com/paulmach/orb"

	"knp-timelapse/internal/mapview"
)

func layerIDs(e *Engine) []string {
	var ids []string
	for _, l := range e.Layers() {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestMoveLayerPlacesBelowReference(t *testing.T) {
	e := New("water", "waterway", "road")

	for _, id := range []string{"a", "b"} {
		if err := e.AddImageSource(mapview.ImageSource{ID: id}); err != nil {
			t.Fatal(err)
		}
		if err := e.AddRasterLayer(mapview.RasterLayer{ID: id, Source: id}); err != nil {
			t.Fatal(err)
		}
		if err := e.MoveLayer(id, "waterway"); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"water", "a", "b", "waterway", "road"}
	if got := layerIDs(e); !reflect.DeepEqual(got, want) {
		t.Errorf("layers = %v, want %v", got, want)
	}
}

func TestRejectsDuplicatesAndUnknownIDs(t *testing.T) {
	e := New("waterway")

	if err := e.AddImageSource(mapview.ImageSource{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := e.AddImageSource(mapview.ImageSource{ID: "a"}); err == nil {
		t.Error("duplicate source accepted")
	}
	if err := e.AddRasterLayer(mapview.RasterLayer{ID: "b", Source: "missing"}); err == nil {
		t.Error("layer with unknown source accepted")
	}
	if err := e.AddRasterLayer(mapview.RasterLayer{ID: "waterway", Source: "a"}); err == nil {
		t.Error("duplicate layer accepted")
	}
	if err := e.MoveLayer("nope", "waterway"); err == nil {
		t.Error("moving unknown layer accepted")
	}
	if err := e.SetVisibility("nope", mapview.VisibilityVisible); err == nil {
		t.Error("visibility on unknown layer accepted")
	}
	if err := e.AddLineLayer(mapview.LineLayer{ID: "line"}); err == nil {
		t.Error("line layer without geometry accepted")
	}
	if err := e.AddLineLayer(mapview.LineLayer{ID: "line", Geometry: orb.LineString{{0, 0}, {1, 1}}}); err != nil {
		t.Errorf("AddLineLayer: %v", err)
	}
}

func TestLoadImagesFiresContentEvents(t *testing.T) {
	e := New()
	for _, id := range []string{"a", "b", "c"} {
		_ = e.AddImageSource(mapview.ImageSource{ID: id})
	}

	var got []string
	e.OnSourceData(func(ev mapview.SourceDataEvent) {
		if ev.IsImageContent() {
			got = append(got, ev.SourceID)
		}
	})

	if n := e.LoadImages(2); n != 2 {
		t.Errorf("LoadImages(2) = %d", n)
	}
	if n := e.LoadImages(-1); n != 3 {
		t.Errorf("LoadImages(-1) = %d", n)
	}
	if want := []string{"a", "b", "a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}
