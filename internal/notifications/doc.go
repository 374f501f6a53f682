// Package notifications pushes audit progress to ntfy.
//
// The service is a thin wrapper over the ntfy publish endpoint: message in
// the body, metadata in Title/Tags/Priority headers. When notifications are
// disabled the returned service is a noop, so callers never branch on
// configuration.
package notifications
