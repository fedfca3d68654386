package client

import (
	"context"
	"time"

	"rchat/internal/domain"
)

// AutoCloser tears a one-to-one ChatContext down AutoCloseDelaySeconds after
// the peer leaves, giving any message still in flight a short window to be
// delivered before the room disappears.
type AutoCloser struct {
	cancel context.CancelFunc
}

// ArmOnPeerLeft starts the countdown. It is a no-op for group chats: only a
// one-to-one chat loses all meaning the moment the other participant leaves.
// Each call starts an independent countdown: calling ArmOnPeerLeft again
// does not cancel an earlier one, and only Disarm on the returned
// AutoCloser stops it.
func ArmOnPeerLeft(ctx *domain.ChatContext, onClose func()) *AutoCloser {
	if ctx.ChatType.Group {
		return &AutoCloser{cancel: func() {}}
	}
	runCtx, cancel := context.WithCancel(context.Background())
	ac := &AutoCloser{cancel: cancel}

	go func() {
		timer := time.NewTimer(domain.AutoCloseDelaySeconds * time.Second)
		defer timer.Stop()
		select {
		case <-timer.C:
			onClose()
		case <-runCtx.Done():
		}
	}()

	return ac
}

// Disarm cancels a pending auto-close, if one is running.
func (ac *AutoCloser) Disarm() {
	if ac == nil || ac.cancel == nil {
		return
	}
	ac.cancel()
}
