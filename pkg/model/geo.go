package model

const GeoJSONPoint = "Point"

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(lng, lat float64) *GeoPoint {
	return &GeoPoint{
		Type:        GeoJSONPoint,
		Coordinates: []float64{lng, lat},
	}
}
