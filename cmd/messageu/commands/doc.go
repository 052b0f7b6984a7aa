// Package commands defines the messageu CLI: one-shot subcommands for each
// protocol operation plus the interactive numeric menu the client
// traditionally presents. Every command maps 1:1 onto a service call; all
// plaintext handling stays below the command layer.
package commands
