package receivers

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
)

// Base is the base implementation of a notifier. It contains the common fields across all notifier types.
type Base struct {
	Index  int
	Name   string
	Type   string
	logger log.Logger
}

func (n *Base) GetLogger(_ context.Context) log.Logger {
	return log.With(n.logger, "receiver", n.Name, "integration", fmt.Sprintf("%s[%d]", n.Type, n.Index))
}

// Metadata contains the metadata of the notifier.
type Metadata struct {
	Index int
	Name  string
	Type  string
}

func NewBase(cfg Metadata, logger log.Logger) *Base {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Base{
		Index:  cfg.Index,
		Name:   cfg.Name,
		Type:   cfg.Type,
		logger: logger,
	}
}
