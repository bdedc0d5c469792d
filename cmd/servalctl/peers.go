package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Show the routing table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		all, _ := cmd.Flags().GetBool("all")
		list := client.Route.Neighbours
		if all {
			list = client.Route.Peers
		}
		peers, err := list(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SID\tDID\tNAME\tREACHABLE\tHOPS")
		for _, p := range peers {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%d\n", p.SID, p.DID, p.Name, p.Reachable(), p.HopCount)
		}
		return tw.Flush()
	},
}

func init() {
	peersCmd.Flags().Bool("all", false, "include self and unreachable peers")
	rootCmd.AddCommand(peersCmd)
}
