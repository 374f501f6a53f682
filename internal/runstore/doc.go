// Package runstore persists audit run history in SQLite.
//
// Every audit records a row when it starts and finalizes it with counts on
// completion or an error message on failure. The schema is embedded and
// versioned; a version mismatch asks the user to delete the database rather
// than migrating in place.
package runstore
