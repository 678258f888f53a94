package ports

import (
	"context"
	"time"
)

// ChannelState is the notification channel's connection state as last
// observed. The broadcast panel is only usable while Connected.
type ChannelState string

const (
	ChannelDisconnected ChannelState = "disconnected"
	ChannelConnected    ChannelState = "connected"
	ChannelError        ChannelState = "error"
)

// Broadcast is one admin announcement pushed to every connected storefront
// client.
type Broadcast struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	From      string    `json:"from"`
}

// NotificationChannel is the realtime transport for admin broadcasts.
// Implementations surface connection lifecycle through State; Send fails with
// domain.ErrChannelDown when the channel is not connected.
type NotificationChannel interface {
	Connect(ctx context.Context) error
	Send(ctx context.Context, b Broadcast) error
	State() ChannelState
	Close() error
}
