package assistant

import (
	"strconv"
	"strings"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
)

// region maps a free-text sailing area to its bounding box. Boxes are coarse
// by intent: they gate a containment search, not navigation.
type region struct {
	name    string
	aliases []string
	box     models.BoundingBox
}

var regions = []region{
	{"Barcelona", []string{"barcelona", "bcn"}, models.BoundingBox{MinLng: 1.9, MinLat: 41.2, MaxLng: 2.4, MaxLat: 41.6}},
	{"Mallorca", []string{"mallorca", "majorca", "palma"}, models.BoundingBox{MinLng: 2.2, MinLat: 39.2, MaxLng: 3.6, MaxLat: 40.0}},
	{"Menorca", []string{"menorca", "minorca", "mahon"}, models.BoundingBox{MinLng: 3.7, MinLat: 39.7, MaxLng: 4.4, MaxLat: 40.2}},
	{"Ibiza", []string{"ibiza", "eivissa"}, models.BoundingBox{MinLng: 1.1, MinLat: 38.7, MaxLng: 1.7, MaxLat: 39.2}},
	{"Balearic Islands", []string{"balearics", "balearic"}, models.BoundingBox{MinLng: 1.0, MinLat: 38.5, MaxLng: 4.5, MaxLat: 40.2}},
	{"Valencia", []string{"valencia"}, models.BoundingBox{MinLng: -0.7, MinLat: 39.2, MaxLng: 0.0, MaxLat: 39.7}},
	{"Gibraltar", []string{"gibraltar", "strait of gibraltar"}, models.BoundingBox{MinLng: -5.8, MinLat: 35.8, MaxLng: -5.1, MaxLat: 36.3}},
	{"Western Mediterranean", []string{"western mediterranean", "west med"}, models.BoundingBox{MinLng: -6, MinLat: 35, MaxLng: 10, MaxLat: 44}},
	{"Lisbon", []string{"lisbon", "lisboa", "cascais"}, models.BoundingBox{MinLng: -9.6, MinLat: 38.5, MaxLng: -8.9, MaxLat: 38.9}},
	{"Porto", []string{"porto", "oporto"}, models.BoundingBox{MinLng: -8.9, MinLat: 40.9, MaxLng: -8.4, MaxLat: 41.4}},
	{"Azores", []string{"azores", "acores", "ponta delgada", "horta"}, models.BoundingBox{MinLng: -31.5, MinLat: 36.7, MaxLng: -24.8, MaxLat: 39.8}},
	{"Canary Islands", []string{"canaries", "canary", "las palmas", "tenerife", "lanzarote"}, models.BoundingBox{MinLng: -18.4, MinLat: 27.5, MaxLng: -13.3, MaxLat: 29.5}},
	{"Bay of Biscay", []string{"biscay", "bay of biscay"}, models.BoundingBox{MinLng: -10, MinLat: 43, MaxLng: -1, MaxLat: 48.5}},
	{"English Channel", []string{"english channel", "channel", "la manche"}, models.BoundingBox{MinLng: -5.8, MinLat: 48.4, MaxLng: 1.8, MaxLat: 51.2}},
	{"Solent", []string{"solent", "cowes", "southampton"}, models.BoundingBox{MinLng: -1.7, MinLat: 50.6, MaxLng: -1.1, MaxLat: 50.9}},
	{"Adriatic", []string{"adriatic", "split", "dubrovnik", "zadar"}, models.BoundingBox{MinLng: 12.2, MinLat: 39.7, MaxLng: 19.8, MaxLat: 45.9}},
	{"Aegean", []string{"aegean", "athens", "cyclades", "corfu", "greek islands"}, models.BoundingBox{MinLng: 22.5, MinLat: 35.0, MaxLng: 28.5, MaxLat: 41.0}},
	{"Atlantic Crossing", []string{"atlantic", "transatlantic", "arc"}, models.BoundingBox{MinLng: -80, MinLat: 10, MaxLng: -10, MaxLat: 45}},
	{"Caribbean", []string{"caribbean", "antigua", "grenada", "martinique", "st lucia"}, models.BoundingBox{MinLng: -85, MinLat: 9, MaxLng: -58, MaxLat: 23}},
}

// ResolveLocation maps a free-text place name to a bounding box using exact
// and substring alias matching.
func ResolveLocation(name string) (*models.BoundingBox, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}
	for _, r := range regions {
		for _, alias := range r.aliases {
			if needle == alias {
				box := r.box
				return &box, true
			}
		}
	}
	// substring pass after the exact pass so "the solent area" still resolves
	for _, r := range regions {
		for _, alias := range r.aliases {
			if strings.Contains(needle, alias) {
				box := r.box
				return &box, true
			}
		}
	}
	return nil, false
}

// toFloat accepts the numeric shapes models emit: JSON numbers, integers and
// numeric strings.
func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NormalizeBoundingBox extracts and validates a bounding box for the given
// prefix ("departure" or "arrival") from tool-call arguments. Three shapes
// are tolerated:
//
//	nested:  {"departureBoundingBox": {"minLng": ..., ...}}
//	flat:    {"departureMinLng": ..., "departureMinLat": ..., ...}
//	strings: either shape with numeric strings instead of numbers
//
// Arguments are expected in camelCase (the executor normalizes keys first).
// A missing box is not an error; a present-but-invalid one is.
func NormalizeBoundingBox(args map[string]interface{}, prefix string) (*models.BoundingBox, error) {
	if nested, ok := args[prefix+"BoundingBox"].(map[string]interface{}); ok {
		box, err := boxFromMap(nested, "")
		if err != nil {
			return nil, err
		}
		return box, nil
	}
	return boxFromMap(args, prefix)
}

// boxFromMap reads minLng/minLat/maxLng/maxLat (optionally prefixed) from a
// map. Returns nil when none of the four keys are present.
func boxFromMap(m map[string]interface{}, prefix string) (*models.BoundingBox, error) {
	key := func(field string) string {
		if prefix == "" {
			return field
		}
		return prefix + strings.ToUpper(field[:1]) + field[1:]
	}

	fields := []string{"minLng", "minLat", "maxLng", "maxLat"}
	values := make(map[string]float64, 4)
	present := 0
	for _, f := range fields {
		raw, ok := m[key(f)]
		if !ok {
			continue
		}
		present++
		v, ok := toFloat(raw)
		if !ok {
			return nil, apperrors.New(apperrors.CodeInvalidValue, "%s is not numeric", key(f))
		}
		values[f] = v
	}
	if present == 0 {
		return nil, nil
	}
	if present < len(fields) {
		return nil, apperrors.New(apperrors.CodeInvalidValue,
			"bounding box requires minLng, minLat, maxLng and maxLat")
	}

	box := models.BoundingBox{
		MinLng: values["minLng"],
		MinLat: values["minLat"],
		MaxLng: values["maxLng"],
		MaxLat: values["maxLat"],
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}
	return &box, nil
}

// legMatchesBounds is the in-process fallback containment check: the leg's
// first waypoint must lie in dep and its last in arr (nil boxes match).
func legMatchesBounds(waypoints []models.Waypoint, dep, arr *models.BoundingBox) bool {
	if len(waypoints) == 0 {
		return false
	}
	if dep != nil {
		first := waypoints[0]
		if !dep.Contains(first.Lng, first.Lat) {
			return false
		}
	}
	if arr != nil {
		last := waypoints[len(waypoints)-1]
		if !arr.Contains(last.Lng, last.Lat) {
			return false
		}
	}
	return true
}
