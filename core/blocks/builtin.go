package blocks

import (
	"context"
	"encoding/json"
	"fmt"
)

// Bot is the set of bot operations exposed as blocks.
type Bot interface {
	SetToken(token string)
	WhenMessageReceived(text string)
	SendText(ctx context.Context, text string) (json.RawMessage, error)
	SendImage(ctx context.Context, url string) (json.RawMessage, error)
	SendAudio(ctx context.Context, url string) (json.RawMessage, error)
	SendVideo(ctx context.Context, url string) (json.RawMessage, error)
	SendDocument(ctx context.Context, url string) (json.RawMessage, error)
	DeleteMessage(ctx context.Context, messageID string) (json.RawMessage, error)
	StartPolling(ctx context.Context)
	StopPolling()
	ChatMessages(ctx context.Context) (string, error)
}

type funcBlock struct {
	opcode string
	kind   Kind
	text   string
	args   []string
	fn     func(ctx context.Context, args Args) (string, error)
}

func (f *funcBlock) Opcode() string      { return f.opcode }
func (f *funcBlock) Kind() Kind          { return f.kind }
func (f *funcBlock) Text() string        { return f.text }
func (f *funcBlock) Arguments() []string { return f.args }

func (f *funcBlock) Execute(ctx context.Context, args Args) (string, error) {
	for _, name := range f.args {
		if _, ok := args[name]; !ok {
			return "", fmt.Errorf("%s: missing argument %q", f.opcode, name)
		}
	}
	return f.fn(ctx, args)
}

func sendBlock(opcode, text, arg string, send func(context.Context, string) (json.RawMessage, error)) Block {
	return &funcBlock{
		opcode: opcode,
		kind:   KindCommand,
		text:   text,
		args:   []string{arg},
		fn: func(ctx context.Context, args Args) (string, error) {
			body, err := send(ctx, args[arg])
			if err != nil {
				return "", err
			}
			return string(body), nil
		},
	}
}

// Builtin returns the Telegram blocks in menu order. The ctx passed to
// startPolling's Execute bounds the polling loop, so callers should pass a
// context that outlives the request.
func Builtin(bot Bot) []Block {
	return []Block{
		&funcBlock{
			opcode: "setToken",
			kind:   KindCommand,
			text:   "set bot token [token]",
			args:   []string{"token"},
			fn: func(_ context.Context, args Args) (string, error) {
				bot.SetToken(args["token"])
				return "", nil
			},
		},
		&funcBlock{
			opcode: "whenMessageReceived",
			kind:   KindHat,
			text:   "when a message is received [text]",
			args:   []string{"text"},
			fn: func(_ context.Context, args Args) (string, error) {
				bot.WhenMessageReceived(args["text"])
				return "", nil
			},
		},
		sendBlock("sendText", "send text [text]", "text", bot.SendText),
		sendBlock("sendImage", "send image [url]", "url", bot.SendImage),
		sendBlock("sendAudio", "send audio [url]", "url", bot.SendAudio),
		sendBlock("sendVideo", "send video [url]", "url", bot.SendVideo),
		sendBlock("sendDocument", "send document [url]", "url", bot.SendDocument),
		sendBlock("deleteMessage", "delete message [messageId]", "messageId", bot.DeleteMessage),
		&funcBlock{
			opcode: "startPolling",
			kind:   KindCommand,
			text:   "start polling for messages",
			fn: func(ctx context.Context, _ Args) (string, error) {
				bot.StartPolling(ctx)
				return "", nil
			},
		},
		&funcBlock{
			opcode: "stopPolling",
			kind:   KindCommand,
			text:   "stop polling for messages",
			fn: func(_ context.Context, _ Args) (string, error) {
				bot.StopPolling()
				return "", nil
			},
		},
		&funcBlock{
			opcode: "getChatMessages",
			kind:   KindReporter,
			text:   "get chat messages in JSON",
			fn: func(ctx context.Context, _ Args) (string, error) {
				return bot.ChatMessages(ctx)
			},
		},
	}
}

// RegisterBuiltin registers every builtin block on r.
func RegisterBuiltin(r *Registry, bot Bot) error {
	for _, b := range Builtin(bot) {
		if err := r.Register(b); err != nil {
			return err
		}
	}
	return nil
}
