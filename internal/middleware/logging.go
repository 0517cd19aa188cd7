package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor logs one line per unary RPC with its procedure, caller,
// result code and latency. Failures the client can fix are logged at WARN
// and server faults at ERROR. A nil logger uses slog.Default at call time.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			l := logger
			if l == nil {
				l = slog.Default()
			}
			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("user_id", GetUserID(ctx)),
				slog.String("peer", req.Peer().Addr),
				slog.String("code", codeOf(err)),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}

			level := slog.LevelInfo
			if err != nil {
				level = slog.LevelWarn
				if isServerFault(connect.CodeOf(err)) {
					level = slog.LevelError
				}
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			l.LogAttrs(ctx, level, "RPC handled", attrs...)

			return resp, err
		}
	}
}

func isServerFault(code connect.Code) bool {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return true
	}
	return false
}
