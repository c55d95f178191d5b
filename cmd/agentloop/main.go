package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/moleculab/agentloop"
	"github.com/moleculab/agentloop/core"
	"github.com/moleculab/agentloop/logging"
	"github.com/moleculab/agentloop/model/anthropic"
	"github.com/moleculab/agentloop/tool"
)

const systemPrompt = "You are a concise assistant. Use the registered tools when they help answer the question."

type timeArgs struct {
	Format string `json:"format,omitempty" jsonschema_description:"Go reference layout (default RFC3339)."`
}

type sumArgs struct {
	A float64 `json:"a" jsonschema_description:"First addend"`
	B float64 `json:"b" jsonschema_description:"Second addend"`
}

func demoTools() []tool.Tool {
	currentTime := tool.NewFunc(
		"current_time",
		"Return the current time, optionally in a custom Go layout.",
		tool.SchemaFor[timeArgs](),
		func(_ context.Context, args map[string]any) (string, error) {
			layout := time.RFC3339
			if f, ok := args["format"].(string); ok && f != "" {
				layout = f
			}
			return time.Now().Format(layout), nil
		},
	)
	calculateSum := tool.NewFunc(
		"calculate_sum",
		"Calculate the sum of two numbers.",
		tool.SchemaFor[sumArgs](),
		func(_ context.Context, args map[string]any) (string, error) {
			a, _ := args["a"].(float64)
			b, _ := args["b"].(float64)
			return fmt.Sprintf("%g", a+b), nil
		},
	)
	return []tool.Tool{currentTime, calculateSum}
}

func main() {
	// .env is optional; the SDK also reads ANTHROPIC_API_KEY directly.
	_ = godotenv.Load()
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Println("Missing ANTHROPIC_API_KEY; export it before running.")
		os.Exit(1)
	}

	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	gateway := anthropic.NewGateway(func(o *anthropic.Options) {
		o.Logger = logger
	})
	loop := agentloop.New(gateway, func(o *agentloop.Options) {
		o.System = systemPrompt
		o.Logger = logger
	})
	for _, t := range demoTools() {
		if err := loop.RegisterTool(t); err != nil {
			fmt.Fprintf(os.Stderr, "failed to register tool: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	sessionID := core.NewID()
	defer loop.EndSession(sessionID)

	fmt.Printf("Chat started (type %s to clear history, Ctrl-C to quit)\n", agentloop.ResetCommand)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		for ev := range loop.Chat(ctx, sessionID, line) {
			switch e := ev.(type) {
			case core.TextDelta:
				fmt.Println(e.Text)
			case core.ToolInvocation:
				if e.Result == "" {
					fmt.Printf("  [%s running...]\n", e.Name)
				} else {
					fmt.Printf("  [%s -> %s]\n", e.Name, firstLine(e.Result))
				}
			case core.ImageArtifact:
				fmt.Printf("  [image artifact: %s (%d b64 chars)]\n", e.Caption, len(e.B64))
			case core.AudioArtifact:
				fmt.Printf("  [audio artifact: %s (%d b64 chars)]\n", e.Caption, len(e.B64))
			case core.ResetAck:
				fmt.Println("  [history cleared]")
			case core.ErrorEvent:
				fmt.Fprintf(os.Stderr, "error: %s\n", e.Message)
			case core.End:
				if e.Reason == core.EndRoundBudget {
					fmt.Println("  [round budget reached]")
				}
			}
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "stdin read error: %v\n", err)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}
