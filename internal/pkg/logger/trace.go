package logger

import (
	"context"
	log "log/slog"
)

// TraceIDKey 定义 Context 中的 Key
const TraceIDKey = "trace_id"

// UserIDKey 会话鉴权后注入的用户标识 Key
const UserIDKey = "user_id"

// ContextHandler 包装器，从 ctx 中提取 trace_id 与 user_id 附加到日志
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
			r.AddAttrs(log.String("trace_id", traceID))
		}
		if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
			r.AddAttrs(log.String("user_id", userID))
		}
	}
	return h.Handler.Handle(ctx, r)
}
