package api

import (
	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/service"
)

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse reports whether the credentials grant the administrator role.
type LoginResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// SectionRequest is the payload for creating or updating a section.
type SectionRequest struct {
	Name       string `json:"name"       validate:"required,max=200"`
	Icon       string `json:"icon"       validate:"max=64"`
	ColorClass string `json:"colorClass" validate:"max=200"`
}

// DiseaseRequest is the payload for creating or updating a disease.
type DiseaseRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description"`
}

// SectionsResponse lists the catalog.
type SectionsResponse struct {
	Loading  bool              `json:"loading"`
	Sections []*domain.Section `json:"sections"`
}

// SearchResponse lists the diseases matching a query.
type SearchResponse struct {
	Query string              `json:"query"`
	Hits  []service.SearchHit `json:"hits"`
}

// BannersResponse lists the banners in display order.
type BannersResponse struct {
	Banners []*domain.Banner `json:"banners"`
}
