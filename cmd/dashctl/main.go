// dashctl is the operator CLI for the admin dashboard.
//
// Usage:
//
//	dashctl stats --driver mongo
//	dashctl admin create --email ops@example.com --name "Ops"
//	dashctl migrate up
//	dashctl migrate down --steps 1
package main

import (
	"fmt"
	"os"

	"eventadmin/cmd/dashctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
