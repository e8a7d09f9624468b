package model

import (
	"time"
)

type Achievement struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Threshold   int    `db:"threshold" json:"threshold"`
}

type UserAchievement struct {
	UserID        string    `db:"user_id" json:"user_id"`
	AchievementID string    `db:"achievement_id" json:"achievement_id"`
	EarnedAt      time.Time `db:"earned_at" json:"earned_at"`
}

// EarnedAchievement is a user achievement joined with its tier metadata.
type EarnedAchievement struct {
	UserAchievement
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Threshold   int    `db:"threshold" json:"threshold"`
}
