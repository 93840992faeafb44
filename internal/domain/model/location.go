package model

// LocationInfo is the static shop-location package, assembled from
// configuration at startup.
type LocationInfo struct {
	Latitude     float64
	Longitude    float64
	VideoURL     string
	ScheduleText string
	ContactPhone string
	MapsURL      string
}
