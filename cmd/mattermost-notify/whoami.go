package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/singnet/mattermost-notify/notify"
)

func newWhoAmICmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the user owning MATTERMOST_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := notify.WhoAmI(cmd.Context(), o.env, o.sender, o.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(o.stdout, "%s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
}
