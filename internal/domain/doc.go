// Package domain contains the catalog entities of the patient-education
// service: sections, diseases, file attachments and banners, together with
// the rules that derive identifiers and file types. It is independent of
// any storage or delivery mechanism.
package domain
