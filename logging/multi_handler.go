package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler 把同一条记录写入多个目标（例如日志文件与 stdout）。
// 某个目标写入失败不影响其它目标，错误合并后返回。
type fanoutHandler []slog.Handler

func newMultiHandler(handlers ...slog.Handler) slog.Handler {
	return fanoutHandler(handlers)
}

func (h fanoutHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, inner := range h {
		if inner.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, inner := range h {
		if !inner.Enabled(ctx, record.Level) {
			continue
		}
		errs = append(errs, inner.Handle(ctx, record.Clone()))
	}
	return errors.Join(errs...)
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	return h.each(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h fanoutHandler) each(fn func(slog.Handler) slog.Handler) fanoutHandler {
	out := make(fanoutHandler, len(h))
	for i, inner := range h {
		out[i] = fn(inner)
	}
	return out
}
