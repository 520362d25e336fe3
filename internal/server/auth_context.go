package server

import (
	"context"
)

type adminContextKey struct{}

type requestInfoKey struct{}

// requestInfo is shared between the logging middleware and inner handlers.
type requestInfo struct {
	admin string
}

func contextWithAdmin(ctx context.Context, username string) context.Context {
	if info := requestInfoFromContext(ctx); info != nil {
		info.admin = username
	}
	return context.WithValue(ctx, adminContextKey{}, username)
}

func adminFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	username, ok := ctx.Value(adminContextKey{}).(string)
	return username, ok && username != ""
}

func contextWithRequestInfo(ctx context.Context) (context.Context, *requestInfo) {
	info := &requestInfo{}
	return context.WithValue(ctx, requestInfoKey{}, info), info
}

func requestInfoFromContext(ctx context.Context) *requestInfo {
	if ctx == nil {
		return nil
	}
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}
