// Package events carries catalog change notifications from the store to
// interested collaborators such as the revision journal.
//
// The store emits a CatalogEvent after every applied mutation and after a
// catalog is installed. No-op mutations emit nothing.
package events
