// Package service contains the use cases of the content service. It
// coordinates the catalog store, the assembler, the banner rotator and the
// export transformer on behalf of the delivery surfaces (HTTP API and CLI).
//
// Key components:
//
//   - CatalogService: initial load, read access, search and administrator
//     mutations of the section tree.
//   - BannerService: the banner list, its rotation state and banner
//     mutations. It keeps the rotator in step with the store by handling
//     catalog events.
//   - ExportService: renders a disease description as a .docx artefact.
//
// Services receive their dependencies through constructor injection and
// report failures with the sentinel errors in errors.go.
package service
