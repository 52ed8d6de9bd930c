// Package command adapts external programs to the credrot ports.
//
// Credentials are handed to child processes through the environment
// (CREDROT_CREDENTIAL), never through argv, so they do not show up in
// process listings.
package command

// Environment variables set for child processes.
const (
	EnvCredential = "CREDROT_CREDENTIAL"
	EnvTarget     = "CREDROT_TARGET"
)
