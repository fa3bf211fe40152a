package dto

// PhoneNumberResponse serializes a phone number attached to an organization.
type PhoneNumberResponse struct {
	ID          uint   `json:"id"`
	PhoneNumber string `json:"phone_number"`
}

// BuildingResponse serializes a building address with coordinates.
type BuildingResponse struct {
	ID        uint    `json:"id"`
	City      string  `json:"city"`
	Street    string  `json:"street"`
	House     string  `json:"house"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ActivityResponse serializes an activity node without its subtree.
type ActivityResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

// OrganizationResponse serializes an organization with its phones.
type OrganizationResponse struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	BuildingID   *uint                 `json:"building_id"`
	PhoneNumbers []PhoneNumberResponse `json:"phone_numbers"`
	Building     *BuildingResponse     `json:"building,omitempty"`
	Activities   []ActivityResponse    `json:"activities,omitempty"`
}

// BuildingWithOrganizations is one record of a geo-radius search.
type BuildingWithOrganizations struct {
	BuildingResponse
	DistanceKm    float64                `json:"distance_km"`
	Organizations []OrganizationResponse `json:"organizations"`
}

// CoordinatesQuery captures the by-coordinates query parameters.
type CoordinatesQuery struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius"`
}
