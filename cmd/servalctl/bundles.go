package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	log "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/servalproject/serval-sdk-go/pkg/rhizome"
)

var bundlesCmd = &cobra.Command{
	Use:     "bundles",
	Aliases: []string{"rhizome"},
	Short:   "Inspect and publish rhizome bundles",
}

var bundlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundles in the local store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		bundles, err := client.Rhizome.Bundles(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSERVICE\tNAME\tSIZE\tVERSION")
		for _, b := range bundles {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", b.ID, b.Service, b.Name, b.Filesize, b.Version)
		}
		return tw.Flush()
	},
}

var bundlesManifestCmd = &cobra.Command{
	Use:   "manifest BID",
	Short: "Print the manifest of a bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		m, err := client.Rhizome.Manifest(ctx, args[0])
		if err != nil {
			return err
		}
		text, err := m.MarshalText()
		if err != nil {
			return err
		}
		os.Stdout.Write(text)
		return nil
	},
}

var bundlesCatCmd = &cobra.Command{
	Use:   "cat BID",
	Short: "Write the payload of a bundle to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		raw, _ := cmd.Flags().GetBool("raw")
		var payload []byte
		if raw {
			payload, err = client.Rhizome.Raw(ctx, args[0])
		} else {
			payload, err = client.Rhizome.Decrypted(ctx, args[0])
		}
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(payload)
		return err
	},
}

var bundlesInsertCmd = &cobra.Command{
	Use:   "insert FILE",
	Short: "Publish a file as a new bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		payload, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = filepath.Base(args[0]) + "-" + uuid.NewString()
		}
		author, _ := cmd.Flags().GetString("author")
		secret, _ := cmd.Flags().GetString("secret")
		if author == "" && secret == "" {
			secret, err = rhizome.GenerateSecret()
			if err != nil {
				return err
			}
			log.Warn("no author identity given, generated a bundle secret; keep it to update the bundle later", "secret", secret)
		}
		result, err := client.Rhizome.Insert(ctx, rhizome.InsertRequest{
			Manifest:     rhizome.Manifest{Service: "file", Name: name},
			BundleAuthor: author,
			BundleSecret: secret,
			Payload:      payload,
		})
		if err != nil {
			return err
		}
		log.Info("inserted",
			"bid", result.Manifest.ID,
			"bundle-status", result.BundleStatus.String(),
			"payload-status", result.PayloadStatus.String())
		fmt.Println(result.Manifest.ID)
		return nil
	},
}

func init() {
	bundlesCatCmd.Flags().Bool("raw", false, "fetch the stored form without decrypting")
	bundlesInsertCmd.Flags().String("name", "", "bundle name (defaults to the file name plus a random suffix)")
	bundlesInsertCmd.Flags().String("author", "", "author SID")
	bundlesInsertCmd.Flags().String("secret", "", "bundle secret")

	bundlesCmd.AddCommand(bundlesListCmd, bundlesManifestCmd, bundlesCatCmd, bundlesInsertCmd)
	rootCmd.AddCommand(bundlesCmd)
}
