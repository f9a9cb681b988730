// Command boatswain is a release manager for a Kubernetes-style
// declarative object API: deploy, delete, and verify named bundles of
// objects as atomic units.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCodeFor(err))
	}
}
