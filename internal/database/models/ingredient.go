package models

// Ingredient is a user-owned ingredient usable in recipes.
type Ingredient struct {
	Base
	Name   string `gorm:"not null" json:"name"`
	UserID uint   `gorm:"index;not null" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
