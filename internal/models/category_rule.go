package models

import (
	"time"
)

// CategoryRule ties one keyword to a category. Position orders rules
// globally: a category's priority is the position of its first rule.
type CategoryRule struct {
	ID        int       `json:"id"`
	Category  string    `json:"category"`
	Keyword   string    `json:"keyword"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryRuleFilter struct {
	Category string
}
