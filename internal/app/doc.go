// Package app assembles the client's dependency graph: configuration
// files, relay client, peer directory, and the identity, roster and
// message services consumed by the CLI.
package app
