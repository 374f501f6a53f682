// Package report renders audit results as CSV files and a markdown summary.
//
// Each audited source contributes one CSV per kind (skipped when nothing is
// missing) plus two markdown sections. Acquisition results get their own CSV.
// The writer tracks every file it touches so callers can log them.
package report
