// Package cli provides the interactive FlexRent command-line client.
//
// It wires configuration, the local session store, API services and a REPL.
// On start it tries to resume the previous session from the saved refresh
// token, then runs a background connectivity watcher next to the prompt.
//
// Commands cover the tenant dashboard (overview, wallet, history, goals) and
// the verification wizard (verify, analyze, status). App.Root blocks until
// the user exits.
package cli
