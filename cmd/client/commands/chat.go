package commands

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rchat/internal/client"
	"rchat/internal/crypto"
	"rchat/internal/domain"
	"rchat/internal/protocol/wire"
)

var (
	chatCode string
	groupMax int
)

const retryInterval = 2 * time.Second

// chatCmd creates or joins a chat and runs the interactive send/receive
// loop until the user quits, the peer leaves a one-to-one chat and the
// auto-close timer fires, or the connection drops.
func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Create or join a chat and start sending messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}
	cmd.Flags().StringVar(&chatCode, "code", "", "chat code to join; omit to create a new chat and print its code")
	cmd.Flags().IntVar(&groupMax, "group", 0, "create a group chat with this many max participants (0 = one-to-one)")
	return cmd
}

func runChat(cmd *cobra.Command) error {
	kind := domain.ChatCodeStrong
	if numeric {
		kind = domain.ChatCodeNumeric
	}

	var code domain.ChatCode
	creating := chatCode == ""
	if creating {
		generated, err := crypto.GenerateChatCode(kind)
		if err != nil {
			return fmt.Errorf("generate chat code: %w", err)
		}
		code = generated
		fmt.Fprintf(os.Stderr, "chat code (share this out of band): %s\n", code.Value)
	} else {
		code = domain.ChatCode{Kind: kind, Value: chatCode}
	}

	chatType := domain.ChatType{Group: groupMax > 0, MaxParticipants: groupMax}
	ctx, err := client.NewChatContext(code, chatType, username)
	if err != nil {
		return fmt.Errorf("derive chat context: %w", err)
	}
	defer client.Close(ctx)

	transport := appCtx.Transport
	defer transport.Close()

	typeWire := wire.ChatTypeWire{Group: chatType.Group, MaxParticipants: chatType.MaxParticipants}
	if creating {
		err = transport.Send(wire.ClientMessage{
			Type: wire.ClientCreateChat,
			CreateChat: &wire.CreateChat{
				RoomID:   ctx.RoomID.String(),
				ChatType: typeWire,
				Username: username,
			},
		})
	} else {
		err = transport.Send(wire.ClientMessage{
			Type: wire.ClientJoinChat,
			JoinChat: &wire.JoinChat{
				RoomID:   ctx.RoomID.String(),
				Username: username,
			},
		})
	}
	if err != nil {
		return fmt.Errorf("announce to relay: %w", err)
	}

	done := make(chan error, 1)
	var closer *client.AutoCloser

	go readLoop(ctx, transport, &closer, done)
	go writeLoop(cmd, ctx, transport)
	go retryLoop(ctx, transport)

	return <-done
}

// readLoop drains server messages until the connection closes or a fatal
// protocol error is observed.
func readLoop(ctx *domain.ChatContext, transport *client.Transport, closer **client.AutoCloser, done chan<- error) {
	for {
		msg, err := transport.Recv()
		if err != nil {
			done <- err
			return
		}
		switch msg.Type {
		case wire.ServerChatCreated:
			fmt.Fprintf(os.Stderr, "chat created: %s\n", msg.ChatCreated.RoomID)
		case wire.ServerJoinedChat:
			fmt.Fprintf(os.Stderr, "joined chat: %d participant(s)\n", msg.JoinedChat.ParticipantCount)
		case wire.ServerError:
			fmt.Fprintf(os.Stderr, "relay error: %s\n", msg.Error.Message)
		case wire.ServerMessageAck:
			client.Acknowledge(ctx, msg.MessageAck.MessageID)
		case wire.ServerUserJoined:
			fmt.Fprintf(os.Stderr, "* %s joined\n", msg.UserJoined.Username)
		case wire.ServerUserLeft:
			fmt.Fprintf(os.Stderr, "* %s left\n", msg.UserLeft.Username)
			(*closer) = client.ArmOnPeerLeft(ctx, func() {
				done <- fmt.Errorf("chat closed: peer left")
			})
		case wire.ServerMessageReceived:
			handleIncoming(ctx, msg.MessageReceived)
		}
	}
}

func handleIncoming(ctx *domain.ChatContext, mr *wire.MessageReceived) {
	received, err := client.Open(ctx, mr.MessageID, mr.EncryptedPayload)
	if err != nil {
		if err == client.ErrDuplicate {
			return
		}
		slog.Warn("dropping unreadable message", "error", err)
		return
	}
	mark := ""
	if !received.Verified {
		mark = " [unverified]"
	}
	fmt.Printf("%s%s: %s\n", received.Username, mark, received.Content)
}

// writeLoop reads lines from stdin, seals each as a message and sends it.
func writeLoop(cmd *cobra.Command, ctx *domain.ChatContext, transport *client.Transport) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		messageID, envelope, err := client.Seal(ctx, line, time.Now().Unix())
		if err != nil {
			slog.Error("seal failed", "error", err)
			continue
		}
		msg, err := client.Enqueue(ctx, messageID, envelope)
		if err != nil {
			slog.Error("enqueue failed", "error", err)
			continue
		}
		if err := transport.Send(msg); err != nil {
			slog.Error("send failed", "error", err)
		}
	}
}

// retryLoop resends, on every retryInterval tick, each message still
// pending, up to domain.MaxSendAttempts per PendingMessage. A message's age
// is not checked: one sent just before a tick is resent on that tick.
func retryLoop(ctx *domain.ChatContext, transport *client.Transport) {
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for range ticker.C {
		retry, failed := client.DueForRetry(ctx)
		for _, pm := range failed {
			fmt.Fprintf(os.Stderr, "message %s failed permanently after %d attempts\n", pm.MessageID, domain.MaxSendAttempts)
		}
		for _, pm := range retry {
			msg, err := wire.DecodeClient(pm.Frame)
			if err != nil {
				continue
			}
			if err := transport.Send(msg); err != nil {
				slog.Warn("retry send failed", "message_id", pm.MessageID, "error", err)
			}
		}
	}
}
