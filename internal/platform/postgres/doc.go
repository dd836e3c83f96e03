// Package postgres journals catalog revisions to PostgreSQL. The in-memory
// catalog store stays authoritative; every applied mutation and install is
// appended to catalog_revisions so administrators have an audit trail.
// Schema changes are goose migrations embedded in the binary.
package postgres
