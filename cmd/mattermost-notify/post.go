package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/singnet/mattermost-notify/notify"
)

func newPostCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "post",
		Short: "Post the message to a channel through the REST API",
		Long: `Posts the message to MATTERMOST_CHANNEL_ID on MATTERMOST_SERVER_URL using MATTERMOST_TOKEN.

The three settings fall back to the SERVER_URL, TOKEN and CHANNEL_ID fields of the message file.
MATTERMOST_ATTACHMENTS_PATH lists files, separated by commas, to upload with the message.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error { return o.runPost(cmd) },
	}
}

func (o *rootOptions) runPost(cmd *cobra.Command) error {
	f := notify.APIFlow{
		Env:         o.env,
		MessageFile: o.messageFile,
		Sender:      o.sender,
		Logger:      o.logger,
	}
	post, err := f.Run(cmd.Context())
	if err != nil {
		return err
	}
	o.slog.Info("Posted message", "post_id", post.ID, "channel_id", post.ChannelID, "files", len(post.FileIDs))
	fmt.Fprintln(o.stdout, sentNotice)
	return nil
}
