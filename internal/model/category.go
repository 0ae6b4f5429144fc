package model

// Category groups listings for browsing.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
