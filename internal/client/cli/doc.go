// Package cli is the interactive oddsup command-line client.
//
// App drives a session.Store from a simple REPL: it tries to resume a
// saved session on start, then dispatches one command per line. Failed
// commands print the store's user-facing error message.
package cli
