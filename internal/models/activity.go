package models

import "time"

// Activity is a recurring commitment with a weekly time budget.
type Activity struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	WeeklyMinutes int       `db:"weekly_minutes" json:"weekly_minutes"`
	Category      string    `db:"category" json:"category"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ActivityFilter describes query params for listing activities.
type ActivityFilter struct {
	Category  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
