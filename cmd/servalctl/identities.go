package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/servalproject/serval-sdk-go/pkg/keyring"
)

var identitiesCmd = &cobra.Command{
	Use:     "identities",
	Aliases: []string{"id"},
	Short:   "Manage keyring identities",
}

var identitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unlocked identities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		pin, _ := cmd.Flags().GetString("pin")
		ids, err := client.Keyring.Identities(ctx, pin)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SID\tDID\tNAME")
		for _, id := range ids {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", id.SID, id.DID, id.Name)
		}
		return tw.Flush()
	},
}

var identitiesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		pin, _ := cmd.Flags().GetString("pin")
		did, _ := cmd.Flags().GetString("did")
		name, _ := cmd.Flags().GetString("name")
		id, err := client.Keyring.Add(ctx, keyring.AddRequest{PIN: pin, DID: did, Name: name})
		if err != nil {
			return err
		}
		fmt.Println(id.SID)
		return nil
	},
}

var identitiesUpdateCmd = &cobra.Command{
	Use:   "update SID",
	Short: "Set or clear the DID and name of an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		var req keyring.UpdateRequest
		req.PIN, _ = cmd.Flags().GetString("pin")
		if cmd.Flags().Changed("did") {
			did, _ := cmd.Flags().GetString("did")
			req.DID = &did
		}
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			req.Name = &name
		}
		id, err := client.Keyring.Update(ctx, args[0], req)
		if err != nil {
			return err
		}
		fmt.Printf("%s did=%q name=%q\n", id.SID, id.DID, id.Name)
		return nil
	},
}

var identitiesRemoveCmd = &cobra.Command{
	Use:   "remove SID",
	Short: "Remove an identity from the keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		pin, _ := cmd.Flags().GetString("pin")
		id, err := client.Keyring.Remove(ctx, args[0], pin)
		if err != nil {
			return err
		}
		fmt.Printf("removed %s\n", id.SID)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{identitiesListCmd, identitiesAddCmd, identitiesUpdateCmd, identitiesRemoveCmd} {
		cmd.Flags().String("pin", "", "keyring PIN")
	}
	identitiesAddCmd.Flags().String("did", "", "phone number to assign")
	identitiesAddCmd.Flags().String("name", "", "name to assign")
	identitiesUpdateCmd.Flags().String("did", "", "phone number (empty clears)")
	identitiesUpdateCmd.Flags().String("name", "", "name (empty clears)")

	identitiesCmd.AddCommand(identitiesListCmd, identitiesAddCmd, identitiesUpdateCmd, identitiesRemoveCmd)
	rootCmd.AddCommand(identitiesCmd)
}
