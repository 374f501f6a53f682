// Package audit orchestrates a full library audit.
//
// A run snapshots the library once, reconciles every configured source
// against it, writes reports, optionally queues merged missing titles for
// acquisition, and records the run in the history store. A file lock keeps
// concurrent runs from stepping on each other's reports.
package audit
