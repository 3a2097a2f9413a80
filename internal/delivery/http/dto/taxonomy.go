package dto

type CategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type TagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
