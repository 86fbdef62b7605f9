package model

// Product is a single searchable catalog entry.
type Product struct {
	ID       int    `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
}
