// Command contentcore manages a personal portfolio's content collections:
// CRUD over the typed collections, the singleton pages, the mock
// subscription flow, seed import/export, and media uploads.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
