package main

import (
	"fmt"

	"agentwindow/internal/message"
	"agentwindow/internal/script"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <script>",
		Short: "Check a run script and print its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			name := s.Name
			if name == "" {
				name = args[0]
			}
			fmt.Fprintf(out, "%s: %d messages\n", name, len(s.Entries))
			for i, msg := range s.Messages() {
				fmt.Fprintf(out, "  %-12s %s\n", message.Key(i, msg), describe(msg))
			}
			return nil
		},
	}
}

func describe(msg message.Message) string {
	if prefix := message.PrefixFor(msg); prefix != "" {
		return prefix + " " + msg.Value
	}
	return msg.Value
}
