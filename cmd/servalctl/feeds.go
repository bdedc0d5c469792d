package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Publish and follow MeshMB broadcast feeds",
}

var feedPostCmd = &cobra.Command{
	Use:   "post ID TEXT",
	Short: "Append a message to the identity's own feed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		return client.MeshMB.Send(ctx, args[0], args[1])
	},
}

var feedListCmd = &cobra.Command{
	Use:   "list ID",
	Short: "List the feeds the identity follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		feeds, err := client.MeshMB.Feeds(ctx, args[0])
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FEED\tNAME\tLAST")
		for _, f := range feeds {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", f.ID, f.Name, f.LastMessage)
		}
		return tw.Flush()
	},
}

var feedShowCmd = &cobra.Command{
	Use:   "show FEEDID",
	Short: "Print the messages of a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		msgs, err := client.MeshMB.Messages(ctx, args[0])
		if err != nil {
			return err
		}
		for i := len(msgs) - 1; i >= 0; i-- {
			m := msgs[i]
			ts := time.Unix(m.Timestamp, 0).Format(time.RFC3339)
			fmt.Printf("%s %s\n", ts, m.Text)
		}
		return nil
	},
}

var feedFollowCmd = &cobra.Command{
	Use:   "follow ID FEEDID",
	Short: "Follow a feed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		return client.MeshMB.Follow(ctx, args[0], args[1])
	},
}

var feedUnfollowCmd = &cobra.Command{
	Use:   "unfollow ID FEEDID",
	Short: "Stop following a feed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		return client.MeshMB.Unfollow(ctx, args[0], args[1])
	},
}

var feedActivityCmd = &cobra.Command{
	Use:   "activity ID",
	Short: "Print the merged timeline of every followed feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		entries, err := client.MeshMB.Activity(ctx, args[0])
		if err != nil {
			return err
		}
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			ts := time.Unix(e.Timestamp, 0).Format(time.RFC3339)
			fmt.Printf("%s <%s> %s\n", ts, e.Name, e.Text)
		}
		return nil
	},
}

func init() {
	feedCmd.AddCommand(feedPostCmd, feedListCmd, feedShowCmd, feedFollowCmd, feedUnfollowCmd, feedActivityCmd)
	rootCmd.AddCommand(feedCmd)
}
