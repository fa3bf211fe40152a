package dto

// SeedBuildingPayload describes a building in a seed document.
type SeedBuildingPayload struct {
	Key       string  `json:"key"`
	City      string  `json:"city"`
	Street    string  `json:"street"`
	House     string  `json:"house"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SeedActivityPayload describes an activity; Parent refers to another activity by name.
type SeedActivityPayload struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// SeedOrganizationPayload describes an organization; Building refers to a building key.
type SeedOrganizationPayload struct {
	Name         string   `json:"name"`
	Building     string   `json:"building"`
	PhoneNumbers []string `json:"phone_numbers"`
	Activities   []string `json:"activities"`
}

// SeedUserPayload describes an API account with a plain-text password.
type SeedUserPayload struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Disabled    bool     `json:"disabled"`
	Permissions []string `json:"permissions"`
}

// SeedDocument is the JSON document accepted by the seed importer.
type SeedDocument struct {
	Buildings     []SeedBuildingPayload     `json:"buildings"`
	Activities    []SeedActivityPayload     `json:"activities"`
	Organizations []SeedOrganizationPayload `json:"organizations"`
	Users         []SeedUserPayload         `json:"users"`
}

// SeedSummary reports how many records an import touched.
type SeedSummary struct {
	Buildings     int64 `json:"buildings"`
	Activities    int64 `json:"activities"`
	Organizations int64 `json:"organizations"`
	PhoneNumbers  int64 `json:"phone_numbers"`
	Users         int64 `json:"users"`
}
