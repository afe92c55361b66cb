// Command formadmin is the terminal admin console for the mentoring
// platform. It adds, updates and deletes records through the platform's
// HTTP APIs and lists what they hold.
package main

import (
	"fmt"
	"os"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const appName = "formadmin"

func main() {
	if err := newRootCmd(defaultDeps()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
