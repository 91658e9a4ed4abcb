package models

import "time"

// Project is a bundle of editor sources owned by the user in CreatedBy.
type Project struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	CreatedBy string    `json:"createdBy"`
	HTMLCode  string    `json:"htmlCode"`
	CSSCode   string    `json:"cssCode"`
	JSCode    string    `json:"jsCode"`
	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectPatch carries the source fields to replace; nil fields are left
// untouched.
type ProjectPatch struct {
	HTMLCode *string
	CSSCode  *string
	JSCode   *string
}

// Empty reports whether the patch changes nothing.
func (p ProjectPatch) Empty() bool {
	return p.HTMLCode == nil && p.CSSCode == nil && p.JSCode == nil
}
