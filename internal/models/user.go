package models

import "time"

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone,omitempty"`
	UserType     UserType   `gorm:"type:varchar(20);not null;index" json:"user_type"`
	Status       UserStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	IsFeatured   bool       `gorm:"index" json:"is_featured"`

	// Кредиты никогда не уходят ниже нуля, списание только условным UPDATE
	Credits             int        `gorm:"not null;default:0" json:"credits"`
	UnlimitedCredits    bool       `json:"unlimited_credits"`
	SubscriptionPack    string     `json:"subscription_pack,omitempty"`
	SubscriptionExpires *time.Time `json:"subscription_expires,omitempty"`
	LastLogin           *time.Time `json:"last_login,omitempty"`

	// Relations
	ArtisanProfile     *ArtisanProfile     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"artisan_profile,omitempty"`
	ParticulierProfile *ParticulierProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"particulier_profile,omitempty"`
}

func (u *User) IsArtisan() bool {
	return u.UserType == UserTypeArtisan
}

func (u *User) IsParticulier() bool {
	return u.UserType == UserTypeParticulier
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
