package models

// AuthToken pins the signed token issued to a user so repeat logins hand
// back the same string until it expires. One row per user.
type AuthToken struct {
	Base
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Token  string `gorm:"not null" json:"token"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
