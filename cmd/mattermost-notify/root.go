package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-kit/log"
	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"

	mmhttp "github.com/singnet/mattermost-notify/http"
	"github.com/singnet/mattermost-notify/logging"
	"github.com/singnet/mattermost-notify/notify"
)

const programName = "mattermost-notify"

type rootOptions struct {
	env    notify.LookupEnvFunc
	stdout io.Writer
	stderr io.Writer

	messageFile string
	logLevel    string
	logFormat   string
	userAgent   string
	proxyURL    string
	noProxy     string

	logger log.Logger
	slog   *slog.Logger
	sender *mmhttp.Client
}

func newRootCmd(env notify.LookupEnvFunc, stdout, stderr io.Writer) *cobra.Command {
	o := &rootOptions{env: env, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   programName,
		Short: "Send a notification to Mattermost",
		Long: `Sends a message to Mattermost through an incoming webhook or the REST API.

The message comes from MATTERMOST_MESSAGE or, when that is empty, from a JSON file
(mattermost.json by default). Without a subcommand the message is posted through the API.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return o.setup() },
		RunE:              func(cmd *cobra.Command, _ []string) error { return o.runPost(cmd) },
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&o.messageFile, "message-file", notify.DefaultMessageFile, "JSON file holding the message when MATTERMOST_MESSAGE is empty")
	flags.StringVar(&o.logLevel, "log.level", "warn", "only log messages with the given severity or above: debug, info, warn, error")
	flags.StringVar(&o.logFormat, "log.format", logging.FormatLogfmt, "output format of log messages: logfmt, json")
	flags.StringVar(&o.userAgent, "user-agent", "", "User-Agent header sent to Mattermost (default "+defaultUserAgent()+")")
	flags.StringVar(&o.proxyURL, "proxy-url", "", "HTTP proxy used to reach Mattermost; HTTP_PROXY, HTTPS_PROXY and NO_PROXY are used when empty")
	flags.StringVar(&o.noProxy, "no-proxy", "", "comma-separated hosts that bypass --proxy-url")

	root.AddCommand(
		newWebhookCmd(o),
		newPostCmd(o),
		newDirectCmd(o),
		newWhoAmICmd(o),
		newVersionCmd(o),
	)
	return root
}

func (o *rootOptions) setup() error {
	logger, err := logging.New(o.stderr, logging.Config{Level: o.logLevel, Format: o.logFormat})
	if err != nil {
		return err
	}
	o.logger = logger
	o.slog = logging.Slog(logger)

	proxy := &mmhttp.ProxyConfig{
		ProxyURL:             o.proxyURL,
		NoProxy:              o.noProxy,
		ProxyFromEnvironment: o.proxyURL == "",
	}
	if err := mmhttp.ValidateProxyConfig(proxy); err != nil {
		return err
	}

	ua := o.userAgent
	if ua == "" {
		ua = defaultUserAgent()
	}
	o.sender = mmhttp.NewClient(logger, mmhttp.AllowGetRequests(), mmhttp.WithUserAgent(ua), mmhttp.WithProxy(proxy))
	return nil
}

func defaultUserAgent() string {
	v := version.Version
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("%s/%s", mmhttp.DefaultUserAgent, v)
}
