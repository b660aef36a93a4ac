package app

import (
	"context"

	"github.com/evanschultz/prio/internal/domain"
)

// Store persists the whole collection under one key. Load returns an empty
// slice when nothing was stored and wraps ErrCorruptPayload when the stored
// value cannot be parsed.
type Store interface {
	Load(context.Context) ([]domain.Item, error)
	Save(context.Context, []domain.Item) error
}

// Logger receives list events. *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
	Error(msg any, keyvals ...any)
}
