// Package queue defines message payloads exchanged over the message broker.
package queue

// PatrolLoggedEvent is published when a patrol log entry is successfully
// recorded. It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type PatrolLoggedEvent struct {
	LogID            string `json:"log_id"`
	OfficerName      string `json:"officer_name"`
	CompanyNumber    string `json:"company_number"`
	PointID          string `json:"point_id"`
	PointDescription string `json:"point_description"`
	AreaName         string `json:"area_name"`
	SiteID           string `json:"site_id"`
	SiteName         string `json:"site_name"`
	GeoLocation      string `json:"geo_location"`
	LoggedAt         string `json:"logged_at"`
}
