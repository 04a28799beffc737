package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"docchat/internal/app"
	"docchat/internal/workflow"
)

// runPlain drives the same upload → poll → chat pipeline on plain stdio,
// for terminals and scripts where the TUI is unwanted.
func runPlain(a *app.Application, file string) error {
	if file == "" {
		return errors.New("plain mode needs a file argument: docchat --no-tui <file>")
	}
	ctx := context.Background()

	id, err := a.Flow.Submit(ctx, file)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded as document %s, processing...\n", id)

	sessionID, err := waitForSession(a.Flow)
	if err != nil {
		return err
	}
	fmt.Println("session open. Ask about the document; 'exit' or ctrl+d to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "exit" || line == "quit":
			return nil
		case line == "":
			continue
		case strings.HasPrefix(line, "/sources "):
			query := strings.TrimSpace(strings.TrimPrefix(line, "/sources "))
			passages, err := a.Flow.Evidence(ctx, id, query)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			for _, p := range passages {
				fmt.Printf("  [p.%d] %s\n", p.Page, p.Text)
			}
		default:
			reply, err := a.Flow.Send(ctx, sessionID, line)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			fmt.Println(reply)
		}
	}
}

// waitForSession consumes orchestrator events until the chat session is up,
// echoing progress along the way.
func waitForSession(flow *workflow.Orchestrator) (string, error) {
	for ev := range flow.Events() {
		switch ev.Kind {
		case workflow.EventProgress:
			fmt.Printf("\rprocessing... %3d%%", ev.Progress)
		case workflow.EventDocumentReady:
			fmt.Print("\rprocessing... done\n")
		case workflow.EventPollFailed:
			fmt.Println()
			return "", errors.Wrap(ev.Err, "processing failed")
		case workflow.EventSessionFailed:
			return "", errors.Wrap(ev.Err, "could not open chat session")
		case workflow.EventSessionStarted:
			return ev.SessionID, nil
		}
	}
	return "", errors.New("workflow closed before a session started")
}
