package controllers

import (
	"context"

	"lumina/lumina/services/transcript"
	"lumina/lumina/services/widget"
	"lumina/lumina/utils/logging"
	"lumina/lumina/utils/types"

	"go.uber.org/zap"
)

type ChatController struct {
	widget     *widget.Widget
	busyNotice string
}

func NewChatController(w *widget.Widget, busyNotice string) *ChatController {
	if busyNotice == "" {
		busyNotice = transcript.ErrBusy.Error()
	}
	return &ChatController{widget: w, busyNotice: busyNotice}
}

// Chat submits the message and blocks until the reply settles. The reply is not
// cancelled when ctx ends: a started reply always runs to completion.
func (c *ChatController) Chat(ctx context.Context, req types.ChatRequest) (transcript.Message, error) {
	defer logging.LogDuration(ctx, "chat_controller_chat")()
	msg, err := c.widget.Submit(context.WithoutCancel(ctx), req.Content)
	if err != nil {
		logging.RequestLogger.Info("chat rejected", zap.Error(err))
	}
	return msg, err
}

func (c *ChatController) Messages() []transcript.Message {
	return c.widget.Messages()
}

// Events streams transcript and widget updates until the returned func is called.
func (c *ChatController) Events() (<-chan widget.Event, func()) {
	return c.widget.Subscribe()
}

func (c *ChatController) Snapshot() types.Snapshot {
	return types.Snapshot{
		Type:     "snapshot",
		Messages: c.widget.Messages(),
		Widget:   c.widget.State(),
	}
}

func (c *ChatController) BusyNotice() string {
	return c.busyNotice
}
