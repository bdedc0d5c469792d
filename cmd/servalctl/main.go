// servalctl is a command line companion for a running serval daemon. It
// drives the daemon's REST interface: keyring identities, rhizome bundles,
// MeshMS conversations, MeshMB feeds and the routing table.
package main

import (
	"os"

	log "github.com/charmbracelet/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
