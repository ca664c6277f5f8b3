// Command termctl is an offline operator tool for the dictionary file.
//
// Usage:
//
//	termctl search --lang ru "кран"
//	termctl export --format yaml > dictionary.yaml
//	termctl merge --user ops incoming.json
//	termctl token --user dana --role EDITOR
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
