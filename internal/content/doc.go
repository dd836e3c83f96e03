// Package content retrieves the individual catalog fragments published by
// the content origin: the section index, per-section disease lists,
// per-disease manifests and descriptions, and the banner list.
//
// It performs no aggregation. Fragments are decoded and validated, and
// every failure is reported as a *FetchError so that the catalog assembler
// can abort the whole load.
package content
