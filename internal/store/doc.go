// Package store holds the live catalog: the section tree and the banner
// list, the transient content references created by uploads, and the
// revision counter.
//
// The tree is persistent. Every mutation in tree.go copies the path from the
// root to the changed node and shares every other node with the previous
// root, so a snapshot handed to a reader stays valid and unchanged for as
// long as the reader holds it. CatalogStore serialises writers and publishes
// each new root atomically.
//
// Mutations that name a missing target are silent no-ops: they report
// applied=false and leave the root, the revision and the resource registry
// untouched.
package store
