package entity

// BookmarkUpdates carries partial bookmark field updates.
type BookmarkUpdates struct {
	Title    *string
	Summary  *string
	Category *string
}

// ToMap converts the updates into a GORM update map.
func (u BookmarkUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Summary != nil {
		updates["summary"] = *u.Summary
	}
	if u.Category != nil {
		updates["category"] = *u.Category
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u BookmarkUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// TagUpdates carries partial tag field updates.
type TagUpdates struct {
	Name *string
}

// ToMap converts the updates into a GORM update map.
func (u TagUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u TagUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// CategoryUpdates carries partial category field updates.
type CategoryUpdates struct {
	Name *string
}

// ToMap converts the updates into a GORM update map.
func (u CategoryUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u CategoryUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
