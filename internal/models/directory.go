package models

// Building is a physical address with coordinates that hosts organizations.
type Building struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	City          string         `gorm:"size:128;not null;index:idx_buildings_address,priority:1" json:"city"`
	Street        string         `gorm:"size:255;not null;index:idx_buildings_address,priority:2" json:"street"`
	House         string         `gorm:"size:32;not null;index:idx_buildings_address,priority:3" json:"house"`
	Latitude      float64        `gorm:"not null" json:"latitude"`
	Longitude     float64        `gorm:"not null" json:"longitude"`
	Organizations []Organization `gorm:"foreignKey:BuildingID" json:"organizations,omitempty"`
}

// PhoneNumber belongs to exactly one organization.
type PhoneNumber struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	PhoneNumber    string `gorm:"size:32;uniqueIndex" json:"phone_number"`
	OrganizationID uint   `gorm:"index;not null" json:"organization_id"`
}

// Organization is a directory entry located in a building and tagged with activities.
type Organization struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"size:255;not null;index" json:"name"`
	BuildingID   *uint         `gorm:"index" json:"building_id"`
	Building     *Building     `json:"building,omitempty"`
	PhoneNumbers []PhoneNumber `gorm:"foreignKey:OrganizationID" json:"phone_numbers"`
	Activities   []Activity    `gorm:"many2many:organization_activities;" json:"activities,omitempty"`
}

// Activity is a node of the business-category taxonomy.
type Activity struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:255;not null;index" json:"name"`
	ParentID      *uint          `gorm:"index" json:"parent_id"`
	Children      []Activity     `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Organizations []Organization `gorm:"many2many:organization_activities;" json:"organizations,omitempty"`
}
