package models

import (
	apperrors "github.com/sailsmart/sailsmart/internal/errors"
)

// BoundingBox is a WGS84 rectangle in decimal degrees.
type BoundingBox struct {
	MinLng float64 `json:"minLng"`
	MinLat float64 `json:"minLat"`
	MaxLng float64 `json:"maxLng"`
	MaxLat float64 `json:"maxLat"`
}

// Validate checks coordinate ranges and min/max ordering.
func (b BoundingBox) Validate() error {
	if b.MinLng < -180 || b.MinLng > 180 || b.MaxLng < -180 || b.MaxLng > 180 {
		return apperrors.New(apperrors.CodeInvalidValue, "longitude must be between -180 and 180")
	}
	if b.MinLat < -90 || b.MinLat > 90 || b.MaxLat < -90 || b.MaxLat > 90 {
		return apperrors.New(apperrors.CodeInvalidValue, "latitude must be between -90 and 90")
	}
	if b.MinLng > b.MaxLng {
		return apperrors.New(apperrors.CodeInvalidValue, "minLng must not exceed maxLng")
	}
	if b.MinLat > b.MaxLat {
		return apperrors.New(apperrors.CodeInvalidValue, "minLat must not exceed maxLat")
	}
	return nil
}

// Contains reports whether the point lies inside the box, borders included.
func (b BoundingBox) Contains(lng, lat float64) bool {
	return lng >= b.MinLng && lng <= b.MaxLng && lat >= b.MinLat && lat <= b.MaxLat
}
