// Package plex enumerates a Plex Media Server library over its JSON API.
//
// The client resolves configured section names to section keys, walks every
// item in each section, and maps item GUIDs (current guid provider entries
// and legacy agent URIs alike) onto identifier namespaces. The item rating
// key is preserved as the opaque library key.
package plex
