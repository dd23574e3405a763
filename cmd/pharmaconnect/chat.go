package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
	"github.com/helaidi0704/pharmaconnect-frontend/internal/realtime"
	"github.com/helaidi0704/pharmaconnect-frontend/internal/session"
)

func (a *app) chat(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: chat <claim-id>")
	}
	claimID := args[0]
	user, _ := a.gate.User()

	claim, err := a.client.GetClaim(ctx, claimID)
	if err != nil {
		return err
	}

	sess := realtime.NewSession(a.cfg.RealtimeURL, user.UserID, realtime.Options{
		TypingIdle: a.cfg.TypingIdle,
	})
	defer sess.Close()

	// Identity change tears the channel down.
	a.gate.Watch(func(state string, _ models.User) {
		if state != session.StateAuthenticated {
			sess.Close()
		}
	})

	connected := true
	if err := sess.Connect(a.client.AccessToken()); err != nil {
		connected = false
		fmt.Printf("(disconnected: %v — messages cannot be sent)\n", err)
	}

	// History comes over REST, live traffic over the channel.
	history, err := a.client.ClaimMessages(ctx, claimID)
	if err != nil {
		return err
	}
	fmt.Printf("chat for claim %s — %d earlier messages, /quit to leave\n", claim.Reference, len(history))
	for _, message := range history {
		printChatMessage(message, user.UserID)
	}

	if connected {
		err = sess.Join(claimID, realtime.Handlers{
			OnMessage: func(message models.Message) {
				printChatMessage(message, user.UserID)
			},
			OnTyping: func(isTyping bool) {
				if isTyping {
					fmt.Println("... someone is typing")
				}
			},
		})
		if err != nil {
			return err
		}
		defer func() {
			_ = sess.Leave(claimID)
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-stop:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if text == "/quit" {
				return nil
			}
			if err := sess.Typing(claimID); err != nil && !errors.Is(err, realtime.ErrDisconnected) {
				fmt.Printf("(typing indicator failed: %v)\n", err)
			}
			if err := sess.SendMessage(claimID, text); err != nil {
				// No outbox: the message is dropped and the user retries.
				fmt.Printf("(not sent: %s — retry manually)\n", sendFailure(err))
				continue
			}
		}
	}
}

func sendFailure(err error) string {
	switch {
	case errors.Is(err, realtime.ErrDisconnected):
		return "realtime channel is disconnected"
	case errors.Is(err, realtime.ErrNotJoined):
		return "not joined to this claim"
	case errors.Is(err, realtime.ErrEmptyMessage):
		return "message is empty"
	default:
		return err.Error()
	}
}

func printChatMessage(message models.Message, selfUserID string) {
	who := senderName(message.Sender)
	if message.Sender.UserID == selfUserID {
		who = "you"
	}
	fmt.Printf("[%s] %s (%s): %s\n",
		message.CreatedAt.Local().Format("15:04"), who, roleLabel(message.SenderRole), message.Message)
}
