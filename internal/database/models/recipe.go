package models

type Recipe struct {
	Base
	UserID      uint    `gorm:"index;not null" json:"-"`
	Title       string  `gorm:"not null" json:"title"`
	TimeMinutes int     `gorm:"not null" json:"time_minutes"`
	Price       float64 `gorm:"type:decimal(5,2);not null" json:"price"`
	Link        string  `json:"link,omitempty"`
	// Path within the image store, set only via the upload endpoint.
	ImagePath string `json:"image,omitempty"`

	// Relationships
	Tags        []Tag        `gorm:"many2many:recipe_tags" json:"-"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients" json:"-"`
	User        *User        `gorm:"foreignKey:UserID" json:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// TagIDs returns the ids of the loaded tag associations.
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}
	return ids
}

// IngredientIDs returns the ids of the loaded ingredient associations.
func (r *Recipe) IngredientIDs() []uint {
	ids := make([]uint, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ids[i] = ing.ID
	}
	return ids
}
