// Package reconcile matches reference-list entries against a library
// snapshot.
//
// Matching is layered: exact identifier lookup, exact normalized title+year
// lookup, then a fuzzy title comparison with a configurable threshold and a
// year tie-break. The first stage to produce a match wins. All functions are
// pure and operate on in-memory collections; callers build one Index per
// library kind partition and reuse it for every reference record.
package reconcile
