package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"pilotpro/internal/apperr"
	"pilotpro/internal/service"
)

// startChat runs the chat loop until `exit` or end of input. Reserved
// commands are dispatched by the chat session; everything else goes to the
// providers.
func (a *App) startChat(ctx context.Context) {
	session := a.chats.NewSession(a.current.Username, a.current.FullName, a.current.Token)

	color.Cyan("Chat started. Type `help` for commands, `exit` to leave.")
	for session.State() != service.StateTerminated {
		input, err := promptLine(a.in, a.out, "You: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			color.Red("Input error: %v", err)
			return
		}
		if input == "" {
			continue
		}

		out, err := session.HandleInput(ctx, input)
		if err != nil {
			if errors.Is(err, apperr.ErrProvider) {
				// The session survives a total provider outage.
				color.Red("No AI backend is reachable right now. Please try again.")
			} else {
				color.Red("Error: %v", err)
			}
			continue
		}

		switch out.Kind {
		case service.TurnReply:
			color.New(color.FgGreen).Fprintf(a.out, "AI: %s\n", out.Reply)
		case service.TurnHelp:
			a.printChatHelp()
		case service.TurnLogs:
			a.printLogs(out)
		case service.TurnExit:
			fmt.Fprintln(a.out, "Leaving chat.")
		}
	}
}

func (a *App) printChatHelp() {
	fmt.Fprintln(a.out, "Available commands:")
	fmt.Fprintln(a.out, "  help  show this message")
	fmt.Fprintln(a.out, "  logs  show recent application log entries")
	fmt.Fprintln(a.out, "  exit  leave the chat and return to the main menu")
}

func (a *App) printLogs(out *service.TurnOutput) {
	if len(out.Logs) == 0 {
		fmt.Fprintln(a.out, "No log entries yet.")
		return
	}
	for _, entry := range out.Logs {
		fmt.Fprintf(a.out, "%s [%s] %s: %s\n", entry.Timestamp, entry.Level, entry.Module, entry.Message)
	}
}
