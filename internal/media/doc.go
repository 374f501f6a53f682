// Package media defines the record shape shared by the library and
// reference-list sides of an audit.
//
// A Record is a loosely identified title: the library provider fills in
// LibraryKey, list providers fill in whatever identifiers the upstream
// catalog exposes. The reconcile package compares the two collections.
package media
