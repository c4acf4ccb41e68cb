package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/singnet/mattermost-notify/notify"
)

func newDirectCmd(o *rootOptions) *cobra.Command {
	var email, username string
	cmd := &cobra.Command{
		Use:   "direct",
		Short: "Send the message as a direct message to one user",
		Long: `Sends the message from the owner of MATTERMOST_TOKEN to a single user.

The recipient is given by --email or --username, or by MATTERMOST_DIRECT_EMAIL or
MATTERMOST_DIRECT_USERNAME when neither flag is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := notify.DirectFlow{
				Env:         o.env,
				MessageFile: o.messageFile,
				Email:       email,
				Username:    username,
				Sender:      o.sender,
				Logger:      o.logger,
			}
			post, err := f.Run(cmd.Context())
			if err != nil {
				return err
			}
			o.slog.Info("Posted direct message", "post_id", post.ID, "channel_id", post.ChannelID)
			fmt.Fprintln(o.stdout, sentNotice)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address of the recipient")
	cmd.Flags().StringVar(&username, "username", "", "username of the recipient")
	cmd.MarkFlagsMutuallyExclusive("email", "username")
	return cmd
}
