package core

import "context"

type eventIDKey struct{}
type channelKey struct{}

// WithEventID records the inbound chat event identifier for correlation.
func WithEventID(ctx context.Context, eventID string) context.Context {
	if ctx == nil || eventID == "" {
		return ctx
	}
	return context.WithValue(ctx, eventIDKey{}, eventID)
}

// WithChannel records the originating channel for correlation.
func WithChannel(ctx context.Context, channel string) context.Context {
	if ctx == nil || channel == "" {
		return ctx
	}
	return context.WithValue(ctx, channelKey{}, channel)
}

func EventIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(eventIDKey{}).(string); ok {
		return v
	}
	return ""
}

func ChannelFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(channelKey{}).(string); ok {
		return v
	}
	return ""
}
