// Package main hosts the Shelfgap CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration, logging, and the audit
// runner together: auditing the library against reference lists, inspecting
// configured sources, browsing the library snapshot and run history, and
// configuration scaffolding. Heavy lifting lives in the internal packages;
// commands stay declarative.
package main
