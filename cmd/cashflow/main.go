// Command cashflow runs household cash-flow projections from the terminal
// and serves the HTTP API.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
