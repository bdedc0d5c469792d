package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var msgCmd = &cobra.Command{
	Use:   "msg",
	Short: "Exchange MeshMS messages",
}

var msgConversationsCmd = &cobra.Command{
	Use:   "conversations SID",
	Short: "List the conversations of an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		convs, err := client.MeshMS.Conversations(ctx, args[0])
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PEER\tREAD\tLAST")
		for _, cv := range convs {
			fmt.Fprintf(tw, "%s\t%v\t%d\n", cv.TheirSID, cv.Read, cv.LastMessage)
		}
		return tw.Flush()
	},
}

var msgListCmd = &cobra.Command{
	Use:   "list SENDER RECIPIENT",
	Short: "Print the message history between two identities",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		msgs, err := client.MeshMS.Texts(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		for i := len(msgs) - 1; i >= 0; i-- {
			m := msgs[i]
			ts := time.Unix(m.Timestamp, 0).Format(time.RFC3339)
			fmt.Printf("%s %s %s\n", ts, m.Type, m.Text)
		}
		return nil
	},
}

var msgSendCmd = &cobra.Command{
	Use:   "send SENDER RECIPIENT TEXT",
	Short: "Send a message",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		return client.MeshMS.Send(ctx, args[0], args[1], args[2])
	},
}

func init() {
	msgCmd.AddCommand(msgConversationsCmd, msgListCmd, msgSendCmd)
	rootCmd.AddCommand(msgCmd)
}
