package content

import "github.com/phrazzld/patientedu/internal/domain"

// Fragment file names on the content origin.
const (
	SectionsFile     = "sections.json"
	BannersFile      = "banners.json"
	DiseasesFile     = "diseases.json"
	ManifestFileName = "manifest.json"
	DescriptionFile  = "description.txt"
)

// SectionMeta is one entry of sections.json.
type SectionMeta struct {
	ID         string `json:"id"         validate:"required"`
	Name       string `json:"name"       validate:"required"`
	Icon       string `json:"icon"`
	ColorClass string `json:"colorClass"`
}

// Manifest describes a disease's display name and its attachments.
type Manifest struct {
	Name  string         `json:"name"  validate:"required"`
	Files []ManifestFile `json:"files" validate:"dive"`
}

// ManifestFile is one attachment entry of a manifest. Path is relative to
// the disease's folder on the origin.
type ManifestFile struct {
	Path        string          `json:"path"        validate:"required"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        domain.FileType `json:"type"`
}

// sectionList wraps sections.json for validation.
type sectionList struct {
	Sections []SectionMeta `validate:"dive"`
}

// bannerList wraps banners.json for validation.
type bannerList struct {
	Banners []domain.Banner `validate:"dive"`
}
