package models

// Tag is a user-owned label attached to recipes.
type Tag struct {
	Base
	Name   string `gorm:"not null" json:"name"`
	UserID uint   `gorm:"index;not null" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
