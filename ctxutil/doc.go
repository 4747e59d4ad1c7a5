// Package ctxutil holds request-scoped context helpers.
//
// # Trace IDs
//
// Every executor call and HTTP request carries a trace id. EnsureTraceID
// creates one with uuid when the context has none:
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//
// When a *gin.Context is embedded with WithGinContext, values are mirrored
// into its key set so handlers and middleware see the same id.
//
// # Detached work
//
// WithDetached derives a context that survives the caller's cancellation
// but keeps its values:
//
//	ctx, cancel := ctxutil.WithDetached(ctx, 0)
//	defer cancel()
package ctxutil
