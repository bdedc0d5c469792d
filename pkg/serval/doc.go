// Package serval bundles every service client behind a single connection
// to one daemon.
//
// The daemon's REST interface listens on loopback and requires HTTP basic
// credentials, normally read from the daemon's own config. A Client holds
// one authenticated HTTP client and hands out service bindings that share
// it:
//
//	cfg := serval.Config{Host: "localhost", Port: 4110, User: "sdk", Password: "secret"}
//	client, err := serval.New(cfg)
//	if err != nil {
//		...
//	}
//	ids, err := client.Keyring.Identities(ctx, "")
//
// NewFromEnv builds the same thing from SERVAL_API_* environment variables.
package serval
