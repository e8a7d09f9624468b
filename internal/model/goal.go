package model

import (
	"time"
)

const (
	GoalOwnerUser  = "user"
	GoalOwnerGroup = "group"
)

// WeekLength is the span of a weekly goal, from start to end date.
const WeekLength = 7 * 24 * time.Hour

type Goal struct {
	ID            string    `db:"id" json:"id"`
	OwnerType     string    `db:"owner_type" json:"owner_type"`
	OwnerID       string    `db:"owner_id" json:"owner_id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	TargetValue   int       `db:"target_value" json:"target_value"`
	CurrentValue  int       `db:"current_value" json:"current_value"`
	Contribution  int       `db:"contribution" json:"contribution"`
	RewardClaimed bool      `db:"reward_claimed" json:"reward_claimed"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	EndDate       time.Time `db:"end_date" json:"end_date"`
	Completed     bool      `db:"completed" json:"completed"`
	Custom        bool      `db:"custom" json:"custom"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

func (g *Goal) IsGroupGoal() bool {
	return g.OwnerType == GoalOwnerGroup
}

// Reached reports whether a group goal's shared contribution has met its target.
func (g *Goal) Reached() bool {
	return g.Contribution >= g.TargetValue
}

// GoalSuggestion is an advisory weekly goal. It is not persisted until added.
type GoalSuggestion struct {
	Title       string `json:"title"`
	TargetValue int    `json:"target_value"`
}
