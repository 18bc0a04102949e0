// Package sentryhelper provides utilities for Sentry transaction and scope
// management. It isolates breadcrumbs and context per typed command.
package sentryhelper

import (
	"context"
	"fmt"

	sentry "github.com/getsentry/sentry-go"
)

// contextKey is used to store the cloned hub in context
type contextKey string

const hubContextKey contextKey = "sentry_hub"

// StartCommandTransaction creates a new transaction with a cloned hub for
// one typed command. The cloned hub keeps breadcrumbs and scope isolated to
// this command only. Returns the context carrying the transaction and hub,
// plus the transaction span.
func StartCommandTransaction(ctx context.Context, commandName string) (context.Context, *sentry.Span) {
	// Clone the hub to isolate scope (breadcrumbs, tags, user context)
	hub := sentry.CurrentHub().Clone()

	ctx = context.WithValue(ctx, hubContextKey, hub)

	transactionName := fmt.Sprintf("repl.command.%s", commandName)
	transaction := sentry.StartTransaction(ctx, transactionName,
		sentry.WithOpName("repl.command"),
		sentry.WithTransactionSource(sentry.SourceRoute),
	)
	transaction.SetTag("command", commandName)

	// Bind the transaction to the cloned hub's scope
	hub.Scope().SetSpan(transaction)

	return transaction.Context(), transaction
}

// HubFromContext retrieves the cloned hub from context, falling back to
// CurrentHub when none was stored.
func HubFromContext(ctx context.Context) *sentry.Hub {
	if ctx == nil {
		return sentry.CurrentHub()
	}
	if hub, ok := ctx.Value(hubContextKey).(*sentry.Hub); ok && hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// AddBreadcrumb adds a breadcrumb to the hub in context (isolated per-command).
func AddBreadcrumb(ctx context.Context, breadcrumb *sentry.Breadcrumb) {
	HubFromContext(ctx).AddBreadcrumb(breadcrumb, nil)
}

// CaptureException captures an exception on the hub in context.
func CaptureException(ctx context.Context, err error) *sentry.EventID {
	return HubFromContext(ctx).CaptureException(err)
}

// CaptureMessage captures a message on the hub in context.
func CaptureMessage(ctx context.Context, message string) *sentry.EventID {
	return HubFromContext(ctx).CaptureMessage(message)
}
