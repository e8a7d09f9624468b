package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Group struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Computed fields (not in groups table)
	MemberCount int `db:"member_count" json:"member_count"`
}

// ImageURL returns the cover image for the group's category.
func (g *Group) ImageURL() string {
	return CategoryImage(g.Category)
}

type Membership struct {
	GroupID  string    `db:"group_id" json:"group_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
	IsAdmin  bool      `db:"is_admin" json:"is_admin"`
}

// Member is a membership joined with the member's public profile.
type Member struct {
	Membership
	DisplayName string `db:"display_name" json:"display_name"`
	ImageURL    string `db:"image_url" json:"image_url"`
}

// JoinedGroup is a group as seen by one of its members.
type JoinedGroup struct {
	Group
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
	IsAdmin  bool      `db:"is_admin" json:"is_admin"`
}

const DefaultCategory = "General"

var categoryImages = map[string]string{
	"Cycling":       "https://images.unsplash.com/photo-1485965120184-e220f721d03e?w=300",
	"Running":       "https://images.unsplash.com/photo-1552674605-db6ffd4facb5?w=300",
	"Yoga":          "https://images.unsplash.com/photo-1545205597-3d9d02c29597?w=300",
	"Weightlifting": "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=300",
}

const defaultCategoryImage = "https://images.unsplash.com/photo-1571902943202-507ec2618e8f?w=300"

// NormalizeCategory trims and title-cases a category so "  cycling" and
// "CYCLING" land in the same bucket.
func NormalizeCategory(category string) string {
	category = strings.Join(strings.Fields(category), " ")
	if category == "" {
		return DefaultCategory
	}
	return cases.Title(language.English).String(category)
}

func CategoryImage(category string) string {
	if url, ok := categoryImages[NormalizeCategory(category)]; ok {
		return url
	}
	return defaultCategoryImage
}
