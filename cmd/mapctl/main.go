// Command mapctl runs map lookups against the local providers without
// starting the HTTP server, and verifies recorded fixtures.
package main

import "os"

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
