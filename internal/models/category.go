package models

import "time"

// AllCategories is the category filter value meaning "no filter".
const AllCategories = "all"

type Category struct {
	Name      string
	Position  int
	CreatedAt time.Time
}
