// Command zmanctl is the operator CLI: it runs the scheduled collector and
// prints resolved zmanim for ad-hoc locations.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
