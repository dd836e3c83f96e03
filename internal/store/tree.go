package store

import "github.com/phrazzld/patientedu/internal/domain"

// Pure tree transitions. None of these functions mutate their arguments; a
// call that changes nothing returns the root it was given.
//
// IDs derived from names can collide, so updates and deletes act on every
// node carrying the target ID.

// AddSection appends s to the root.
func AddSection(root []*domain.Section, s *domain.Section) []*domain.Section {
	return appendCopy(root, s)
}

// UpdateSection replaces the display fields of every section with the
// given ID. Their diseases are shared with the old nodes.
func UpdateSection(root []*domain.Section, id, name, icon, colorClass string) ([]*domain.Section, bool) {
	return replaceSection(root, id, func(s *domain.Section) (*domain.Section, bool) {
		ns := *s
		ns.Name = name
		ns.Icon = icon
		ns.ColorClass = colorClass
		return &ns, true
	})
}

// DeleteSection removes every section with the given ID and returns the
// removed nodes, or nil when there are none.
func DeleteSection(root []*domain.Section, id string) ([]*domain.Section, []*domain.Section) {
	return removeMatching(root, func(s *domain.Section) bool { return s.ID == id })
}

// AddDisease appends d to the section with the given ID.
func AddDisease(root []*domain.Section, sectionID string, d *domain.Disease) ([]*domain.Section, bool) {
	return replaceSection(root, sectionID, func(s *domain.Section) (*domain.Section, bool) {
		ns := *s
		ns.Diseases = appendCopy(s.Diseases, d)
		return &ns, true
	})
}

// UpdateDisease replaces the name and description of a disease. Its files
// are shared with the old node.
func UpdateDisease(root []*domain.Section, sectionID, diseaseID, name, description string) ([]*domain.Section, bool) {
	return replaceDisease(root, sectionID, diseaseID, func(d *domain.Disease) (*domain.Disease, bool) {
		nd := *d
		nd.Name = name
		nd.Description = description
		return &nd, true
	})
}

// DeleteDisease removes a disease and returns the removed nodes, or nil
// when either the section or the disease does not exist.
func DeleteDisease(root []*domain.Section, sectionID, diseaseID string) ([]*domain.Section, []*domain.Disease) {
	var removed []*domain.Disease
	next, _ := replaceSection(root, sectionID, func(s *domain.Section) (*domain.Section, bool) {
		kept, gone := removeMatching(s.Diseases, func(d *domain.Disease) bool { return d.ID == diseaseID })
		if gone == nil {
			return nil, false
		}
		removed = append(removed, gone...)
		ns := *s
		ns.Diseases = kept
		return &ns, true
	})
	return next, removed
}

// AddFile appends f to a disease.
func AddFile(root []*domain.Section, sectionID, diseaseID string, f *domain.FileAttachment) ([]*domain.Section, bool) {
	return replaceDisease(root, sectionID, diseaseID, func(d *domain.Disease) (*domain.Disease, bool) {
		nd := *d
		nd.Files = appendCopy(d.Files, f)
		return &nd, true
	})
}

// DeleteFile removes an attachment and returns the removed nodes, or nil
// when any level of the path is missing.
func DeleteFile(root []*domain.Section, sectionID, diseaseID, fileID string) ([]*domain.Section, []*domain.FileAttachment) {
	var removed []*domain.FileAttachment
	next, _ := replaceDisease(root, sectionID, diseaseID, func(d *domain.Disease) (*domain.Disease, bool) {
		kept, gone := removeMatching(d.Files, func(f *domain.FileAttachment) bool { return f.ID == fileID })
		if gone == nil {
			return nil, false
		}
		removed = append(removed, gone...)
		nd := *d
		nd.Files = kept
		return &nd, true
	})
	return next, removed
}

// AddBanner appends b to the banner list.
func AddBanner(banners []*domain.Banner, b *domain.Banner) []*domain.Banner {
	return appendCopy(banners, b)
}

// UpdateBanner replaces the title and description of every banner with the
// given ID, and the image when imageURL is not empty. The replaced nodes
// are returned, or nil when there is no such banner.
func UpdateBanner(banners []*domain.Banner, id, title, description, imageURL string) ([]*domain.Banner, []*domain.Banner) {
	var replaced []*domain.Banner
	next, _ := mapMatching(banners,
		func(b *domain.Banner) bool { return b.ID == id },
		func(b *domain.Banner) (*domain.Banner, bool) {
			replaced = append(replaced, b)
			nb := *b
			nb.Title = title
			nb.Description = description
			if imageURL != "" {
				nb.ImageURL = imageURL
			}
			return &nb, true
		})
	return next, replaced
}

// DeleteBanner removes every banner with the given ID and returns the
// removed nodes, or nil when there are none.
func DeleteBanner(banners []*domain.Banner, id string) ([]*domain.Banner, []*domain.Banner) {
	return removeMatching(banners, func(b *domain.Banner) bool { return b.ID == id })
}

// FindBanner returns the first banner with the given ID and its index.
func FindBanner(banners []*domain.Banner, id string) (*domain.Banner, int) {
	for i, b := range banners {
		if b.ID == id {
			return b, i
		}
	}
	return nil, -1
}

func replaceSection(
	root []*domain.Section,
	sectionID string,
	fn func(*domain.Section) (*domain.Section, bool),
) ([]*domain.Section, bool) {
	return mapMatching(root, func(s *domain.Section) bool { return s.ID == sectionID }, fn)
}

func replaceDisease(
	root []*domain.Section,
	sectionID, diseaseID string,
	fn func(*domain.Disease) (*domain.Disease, bool),
) ([]*domain.Section, bool) {
	return replaceSection(root, sectionID, func(s *domain.Section) (*domain.Section, bool) {
		diseases, ok := mapMatching(s.Diseases, func(d *domain.Disease) bool { return d.ID == diseaseID }, fn)
		if !ok {
			return nil, false
		}
		ns := *s
		ns.Diseases = diseases
		return &ns, true
	})
}

// mapMatching replaces every element accepted by match with fn's result.
// The slice is copied on the first replacement; elements fn declines are
// kept as they are.
func mapMatching[T any](s []*T, match func(*T) bool, fn func(*T) (*T, bool)) ([]*T, bool) {
	var out []*T
	for i, v := range s {
		if !match(v) {
			continue
		}
		nv, ok := fn(v)
		if !ok {
			continue
		}
		if out == nil {
			out = make([]*T, len(s))
			copy(out, s)
		}
		out[i] = nv
	}
	if out == nil {
		return s, false
	}
	return out, true
}

// removeMatching drops every element accepted by match and returns them.
func removeMatching[T any](s []*T, match func(*T) bool) ([]*T, []*T) {
	var removed []*T
	for _, v := range s {
		if match(v) {
			removed = append(removed, v)
		}
	}
	if removed == nil {
		return s, nil
	}
	out := make([]*T, 0, len(s)-len(removed))
	for _, v := range s {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out, removed
}

func appendCopy[T any](s []*T, v *T) []*T {
	out := make([]*T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// sectionRefs collects the transient references held below sections.
func sectionRefs(sections []*domain.Section) []string {
	var refs []string
	for _, s := range sections {
		refs = append(refs, diseaseRefs(s.Diseases)...)
	}
	return refs
}

func diseaseRefs(diseases []*domain.Disease) []string {
	var refs []string
	for _, d := range diseases {
		refs = append(refs, fileRefs(d.Files)...)
	}
	return refs
}

func fileRefs(files []*domain.FileAttachment) []string {
	var refs []string
	for _, f := range files {
		if IsBlobRef(f.DataURL) {
			refs = append(refs, f.DataURL)
		}
	}
	return refs
}

func bannerRefs(banners []*domain.Banner) []string {
	var refs []string
	for _, b := range banners {
		if IsBlobRef(b.ImageURL) {
			refs = append(refs, b.ImageURL)
		}
	}
	return refs
}
