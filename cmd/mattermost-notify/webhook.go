package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/singnet/mattermost-notify/notify"
)

func newWebhookCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "webhook",
		Short: "Send the message through an incoming webhook",
		Long: `Posts the message to MATTERMOST_WEBHOOK_URL.

MATTERMOST_CHANNEL, MATTERMOST_USERNAME and MATTERMOST_ICON override the ChannelName,
Username and IconURL fields of the message. An empty message is not an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := notify.WebhookFlow{
				Env:         o.env,
				MessageFile: o.messageFile,
				Sender:      o.sender,
				Logger:      o.logger,
			}
			outcome, err := f.Run(cmd.Context())
			if err != nil {
				return err
			}
			if outcome == notify.Skipped {
				fmt.Fprintln(o.stdout, noopNotice)
				return nil
			}
			fmt.Fprintln(o.stdout, sentNotice)
			return nil
		},
	}
}
