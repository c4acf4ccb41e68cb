package notify

import (
	"os"
	"strings"
)

// Environment variables read by the flows.
const (
	envPrefix = "MATTERMOST_"

	EnvMessage         = "MATTERMOST_MESSAGE"
	EnvWebhookURL      = "MATTERMOST_WEBHOOK_URL"
	EnvChannel         = "MATTERMOST_CHANNEL"
	EnvUsername        = "MATTERMOST_USERNAME"
	EnvIcon            = "MATTERMOST_ICON"
	EnvServerURL       = "MATTERMOST_SERVER_URL"
	EnvToken           = "MATTERMOST_TOKEN"
	EnvChannelID       = "MATTERMOST_CHANNEL_ID"
	EnvAttachmentsPath = "MATTERMOST_ATTACHMENTS_PATH"
	EnvDirectEmail     = "MATTERMOST_DIRECT_EMAIL"
	EnvDirectUsername  = "MATTERMOST_DIRECT_USERNAME"
)

// DefaultMessageFile is read from the working directory when MATTERMOST_MESSAGE is not set.
const DefaultMessageFile = "mattermost.json"

// LookupEnvFunc has the semantics of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// OSEnv reads the process environment.
var OSEnv LookupEnvFunc = os.LookupEnv

// MapEnv serves lookups from a fixed map.
func MapEnv(vars map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func (f LookupEnvFunc) get(key string) string {
	if f == nil {
		return ""
	}
	v, _ := f(key)
	return v
}

func (f LookupEnvFunc) lookup(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(key)
}

// messageKey is the name under which an environment setting may be found in the message file.
func messageKey(envName string) string {
	return strings.TrimPrefix(envName, envPrefix)
}
