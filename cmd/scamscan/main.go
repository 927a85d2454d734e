// scamscan runs the honeypot's classifier and extractor over offline input.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
