package notify

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/singnet/mattermost-notify/models"
)

// ReadMessage parses the JSON object stored at path.
func ReadMessage(path string) (models.Message, error) {
	//nolint:gosec // the path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingInputError{Path: path}
		}
		return nil, &ParseError{Path: path, Err: errors.Wrap(err, "failed to read file")}
	}

	var msg models.Message
	if err := models.JSON.Unmarshal(data, &msg); err != nil {
		return nil, &ParseError{Path: path, Err: errors.Wrapf(err, "invalid JSON in %s", path)}
	}
	if msg == nil {
		msg = models.Message{}
	}
	return msg, nil
}

// ResolveMessage builds the message of this run. A non-blank MATTERMOST_MESSAGE wins and the
// file at path is then never read.
func ResolveMessage(env LookupEnvFunc, path string) (models.Message, error) {
	if text := strings.TrimSpace(env.get(EnvMessage)); text != "" {
		return models.NewTextMessage(text), nil
	}
	if path == "" {
		path = DefaultMessageFile
	}
	return ReadMessage(path)
}

// displayOverrides maps each webhook display setting to its message key.
var displayOverrides = []struct {
	env string
	key string
}{
	{env: EnvChannel, key: models.ChannelNameKey},
	{env: EnvUsername, key: models.UsernameKey},
	{env: EnvIcon, key: models.IconURLKey},
}

// MergeDisplayOverrides writes the webhook display settings found in the environment into msg.
// A variable that is set, even to the empty string, replaces the file value; an unset one
// leaves the message untouched.
func MergeDisplayOverrides(env LookupEnvFunc, msg models.Message) models.Message {
	if msg == nil {
		msg = models.Message{}
	}
	for _, o := range displayOverrides {
		if v, ok := env.lookup(o.env); ok {
			msg.Set(o.key, v)
		}
	}
	return msg
}

// RequireSetting resolves a mandatory setting from the environment, falling back to the message
// key named after the variable without its MATTERMOST_ prefix.
func RequireSetting(env LookupEnvFunc, msg models.Message, name string) (string, error) {
	v, ok := env.lookup(name)
	if !ok {
		v, _ = msg.String(messageKey(name))
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", &MissingRequiredFieldError{Field: name}
	}
	return v, nil
}

// ResolveAttachments returns the attachment paths of the run, in the order given. An unset or
// empty list yields no paths.
func ResolveAttachments(env LookupEnvFunc, msg models.Message) ([]string, error) {
	raw, ok := env.lookup(EnvAttachmentsPath)
	if !ok {
		raw, _ = msg.String(models.AttachmentsPathKey)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, &InvalidAttachmentPathError{Value: raw}
	}
	return paths, nil
}
