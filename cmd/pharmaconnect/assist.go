package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/api"
)

// assist is the interactive assistant loop. The conversation history lives in
// this process and is replayed to the backend on every turn.
func (a *app) assist(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	// One-shot mode: the question is given on the command line.
	if len(args) > 0 {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return fmt.Errorf("usage: assist [question]")
		}
		reply, _, err := a.client.AskAssistant(ctx, question, nil)
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	}

	fmt.Println("assistant ready - ask about claims, stock or partners, /quit to leave")
	var history []api.ChatTurn

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "/quit" {
			return nil
		}

		reply, updated, err := a.client.AskAssistant(ctx, question, history)
		if err != nil {
			// A failed turn does not lose the thread; the user retries.
			fmt.Printf("(assistant unavailable: %s)\n", api.UserMessage(err))
			continue
		}
		history = updated
		fmt.Println(reply)
	}
}
