package model

import (
	"time"
)

type User struct {
	ID          string    `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const DefaultAvatarURL = "https://images.unsplash.com/photo-1633332755192-727a05c4013d?w=150"

// Avatar returns the user's image, or the shared placeholder when none is set.
func (u *User) Avatar() string {
	if u.ImageURL == "" {
		return DefaultAvatarURL
	}
	return u.ImageURL
}
