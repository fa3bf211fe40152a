package models

// User is an API account. Permission names double as token scopes.
type User struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Username       string       `gorm:"size:128;not null;uniqueIndex" json:"username"`
	HashedPassword string       `gorm:"size:255;not null" json:"-"`
	Disabled       bool         `gorm:"not null;default:false" json:"disabled"`
	Permissions    []Permission `gorm:"many2many:user_permissions;" json:"permissions,omitempty"`
}

// Permission is a named grant such as basic_user or advanced_user.
type Permission struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:64;not null;uniqueIndex" json:"name"`
	Details string `gorm:"size:255" json:"details"`
}

// ScopeNames returns the permission names of the user in stored order.
func (u User) ScopeNames() []string {
	scopes := make([]string, 0, len(u.Permissions))
	for _, permission := range u.Permissions {
		scopes = append(scopes, permission.Name)
	}
	return scopes
}
