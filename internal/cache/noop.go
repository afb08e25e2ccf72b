package cache

import (
	"context"
	"time"
)

// Noop используется, когда redis не настроен: ничего не хранит и всегда промахивается.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }

func (Noop) Invalidate(context.Context, string) error { return nil }

func (Noop) Ping(context.Context) error { return nil }

func (Noop) Close() error { return nil }
