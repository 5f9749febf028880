package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

func NewPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p GeoPoint) Lng() float64 { return p.Coordinates[0] }
func (p GeoPoint) Lat() float64 { return p.Coordinates[1] }

var (
	ErrLocationMissing = errors.New("location is required")
	ErrLocationFormat  = errors.New("invalid location format, must be a GeoJSON Point or {lng, lat}")
	ErrLocationRange   = errors.New("invalid coordinates: longitude must be between -180 and 180, latitude between -90 and 90")
)

// Validate checks the point type and coordinate ranges.
func (p GeoPoint) Validate() error {
	if p.Type != "Point" {
		return ErrLocationFormat
	}
	if p.Lng() < -180 || p.Lng() > 180 || p.Lat() < -90 || p.Lat() > 90 {
		return ErrLocationRange
	}
	return nil
}

type rawLocation struct {
	Type        string   `json:"type"`
	Coordinates []any    `json:"coordinates"`
	Lng         *float64 `json:"lng"`
	Lat         *float64 `json:"lat"`
}

// ParsePoint turns any accepted location payload into a validated
// GeoPoint. Accepted shapes are a GeoJSON point, an object with lng and
// lat, or a JSON string holding either (multipart form values).
func ParsePoint(raw []byte) (GeoPoint, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return GeoPoint{}, ErrLocationMissing
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return GeoPoint{}, ErrLocationFormat
		}
		unwrapped := bytes.TrimSpace([]byte(inner))
		if len(unwrapped) == 0 {
			return GeoPoint{}, ErrLocationMissing
		}
		if unwrapped[0] == '"' {
			return GeoPoint{}, ErrLocationFormat
		}
		return ParsePoint(unwrapped)
	}

	var in rawLocation
	if err := json.Unmarshal(raw, &in); err != nil {
		return GeoPoint{}, ErrLocationFormat
	}

	var p GeoPoint
	switch {
	case in.Type != "" || in.Coordinates != nil:
		if in.Type != "Point" || len(in.Coordinates) != 2 {
			return GeoPoint{}, ErrLocationFormat
		}
		lng, ok1 := in.Coordinates[0].(float64)
		lat, ok2 := in.Coordinates[1].(float64)
		if !ok1 || !ok2 {
			return GeoPoint{}, ErrLocationFormat
		}
		p = NewPoint(lng, lat)
	case in.Lng != nil && in.Lat != nil:
		p = NewPoint(*in.Lng, *in.Lat)
	default:
		return GeoPoint{}, ErrLocationFormat
	}

	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}
