package assistant

import (
	"testing"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
)

func TestResolveLocation(t *testing.T) {
	box, ok := ResolveLocation("Barcelona")
	if !ok {
		t.Fatal("Barcelona should resolve")
	}
	if !box.Contains(2.1, 41.4) {
		t.Error("Barcelona box should contain the city coordinates")
	}

	if _, ok := ResolveLocation("the solent area"); !ok {
		t.Error("substring alias match should resolve")
	}
	if _, ok := ResolveLocation("Atlantis"); ok {
		t.Error("unknown area should not resolve")
	}
	if _, ok := ResolveLocation("  "); ok {
		t.Error("blank input should not resolve")
	}
}

func TestNormalizeBoundingBoxNestedShape(t *testing.T) {
	args := map[string]interface{}{
		"departureBoundingBox": map[string]interface{}{
			"minLng": -6.0, "minLat": 35.0, "maxLng": 10.0, "maxLat": 44.0,
		},
	}
	box, err := NormalizeBoundingBox(args, "departure")
	if err != nil {
		t.Fatalf("nested shape: %v", err)
	}
	if box == nil || box.MinLng != -6 || box.MaxLat != 44 {
		t.Errorf("wrong box: %+v", box)
	}
}

func TestNormalizeBoundingBoxFlatShape(t *testing.T) {
	args := map[string]interface{}{
		"arrivalMinLng": 2.2, "arrivalMinLat": 39.2,
		"arrivalMaxLng": 3.6, "arrivalMaxLat": 40.0,
	}
	box, err := NormalizeBoundingBox(args, "arrival")
	if err != nil {
		t.Fatalf("flat shape: %v", err)
	}
	if box == nil || box.MinLat != 39.2 {
		t.Errorf("wrong box: %+v", box)
	}
}

func TestNormalizeBoundingBoxNumericStrings(t *testing.T) {
	args := map[string]interface{}{
		"departureBoundingBox": map[string]interface{}{
			"minLng": "1.9", "minLat": "41.2", "maxLng": "2.4", "maxLat": "41.6",
		},
	}
	box, err := NormalizeBoundingBox(args, "departure")
	if err != nil {
		t.Fatalf("string shape: %v", err)
	}
	if box == nil || box.MaxLng != 2.4 {
		t.Errorf("wrong box: %+v", box)
	}
}

func TestNormalizeBoundingBoxMissingIsNil(t *testing.T) {
	box, err := NormalizeBoundingBox(map[string]interface{}{"departureLocation": "Barcelona"}, "departure")
	if err != nil {
		t.Fatalf("missing box should not error: %v", err)
	}
	if box != nil {
		t.Errorf("expected nil box, got %+v", box)
	}
}

func TestNormalizeBoundingBoxPartialIsError(t *testing.T) {
	args := map[string]interface{}{
		"departureBoundingBox": map[string]interface{}{"minLng": 1.9, "minLat": 41.2},
	}
	_, err := NormalizeBoundingBox(args, "departure")
	if apperrors.CodeOf(err) != apperrors.CodeInvalidValue {
		t.Fatalf("partial box should be INVALID_VALUE, got %v", err)
	}
}

func TestNormalizeBoundingBoxOutOfRangeIsError(t *testing.T) {
	args := map[string]interface{}{
		"departureBoundingBox": map[string]interface{}{
			"minLng": -200.0, "minLat": 35.0, "maxLng": 10.0, "maxLat": 44.0,
		},
	}
	if _, err := NormalizeBoundingBox(args, "departure"); err == nil {
		t.Fatal("longitude below -180 should be rejected")
	}
}

func TestLegMatchesBounds(t *testing.T) {
	barcelona := models.BoundingBox{MinLng: 1.9, MinLat: 41.2, MaxLng: 2.4, MaxLat: 41.6}
	mallorca := models.BoundingBox{MinLng: 2.2, MinLat: 39.2, MaxLng: 3.6, MaxLat: 40.0}
	route := []models.Waypoint{
		{Position: 0, Lng: 2.18, Lat: 41.38},
		{Position: 1, Lng: 2.5, Lat: 40.5},
		{Position: 2, Lng: 2.65, Lat: 39.57},
	}

	if !legMatchesBounds(route, &barcelona, &mallorca) {
		t.Error("route from Barcelona to Mallorca should match both boxes")
	}
	if !legMatchesBounds(route, &barcelona, nil) {
		t.Error("nil arrival box should match anything")
	}
	if legMatchesBounds(route, &mallorca, nil) {
		t.Error("departure box must be checked against the first waypoint")
	}
	if legMatchesBounds(nil, &barcelona, nil) {
		t.Error("a leg without waypoints never matches")
	}
}
