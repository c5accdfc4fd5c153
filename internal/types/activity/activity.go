package activity

import "portfolioAPI/internal/progress"

type CreateActivityRequest struct {
	Date     string   `json:"date" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Status   bool     `json:"status"`
	Note     string   `json:"note"`
	Links    []string `json:"links"`
}

type ProgressResponse struct {
	Records    []progress.ActivityRecord `json:"records"`
	Categories []string                  `json:"categories"`
	Selected   string                    `json:"selected"`
	Count      int                       `json:"count"`
}
