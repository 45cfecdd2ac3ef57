package models

// Group is a topic posts can be filed under. Groups are identified by slug.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string `gorm:"type:varchar(10);uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (g Group) String() string {
	return g.Title
}
