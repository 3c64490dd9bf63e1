package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	coreconfig "github.com/botwright/teleflow/core/config"
	"github.com/botwright/teleflow/core/logger"
	"github.com/botwright/teleflow/flow"
	"github.com/botwright/teleflow/users"
)

// demoCmd runs a chart against stdin, no Telegram token required. The same
// chart could be served by the Telegram binding unchanged; the console is
// just another transport.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an interactive demo conversation on the console",
	Long: `Starts a small drink-ordering chart and dispatches your console input
through it, exactly as a Telegram update would be. Type /start to begin,
/quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			cfg := &coreconfig.Config{}
			cfg.Logging.Level = "debug"
			cfg.Logging.Format = "kv"
			if err := logger.Init(cfg); err != nil {
				return err
			}
			defer func() { _ = logger.Shutdown() }()
		}
		return runDemo(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().BoolP("verbose", "v", false, "Show engine dispatch logs")
}

func demoChart() (*flow.Chart, error) {
	say := func(format string, a ...any) flow.Action {
		return func(dc *flow.Context) error {
			return dc.Send(fmt.Sprintf(format, a...))
		}
	}

	r := flow.NewRegistry()

	r.AddState(flow.StateStart)
	r.AddState("menu", flow.OnEnter(
		say("What can I get you? Say 'order tea' or 'order coffee'."),
	))
	r.AddState("brewing", flow.OnEnter(func(dc *flow.Context) error {
		drink := strings.TrimPrefix(dc.Event.Text, "order ")
		return dc.Send(fmt.Sprintf("One %s, coming right up...", drink))
	}))

	r.AddTransition(`/start`, flow.StateStart, "menu", flow.Before(func(dc *flow.Context) error {
		return dc.Send(fmt.Sprintf("Hello, %s!", dc.User.Name))
	}))
	r.AddTransition(`order (tea|coffee)`, "menu", "brewing")
	r.AddTransition(flow.TriggerFreeText, "menu", "menu", flow.Before(
		say("Sorry, I only serve tea and coffee."),
	))
	// The chain settles back on the menu once the drink is out.
	r.AddTransition(flow.TriggerPassThrough, "brewing", "menu", flow.Before(
		say("Here you go. ☕"),
	))
	r.AddTransition(`/start`, "menu", "menu")

	return r.Compile()
}

func runDemo(ctx context.Context) error {
	chart, err := demoChart()
	if err != nil {
		return fmt.Errorf("demo chart: %w", err)
	}

	store := users.NewMemoryStore()
	dispatcher := flow.NewDispatcher(chart, store)

	console := flow.ReplierFunc(func(_ context.Context, _ int64, what any, _ ...any) error {
		fmt.Printf("bot> %v\n", what)
		return nil
	})

	fmt.Println("Console demo. /start begins, /quit leaves.")
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("you> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" || line == "/exit" {
			break
		}
		if line != "" {
			ev := flow.Event{
				Kind:   flow.KindText,
				Sender: flow.Profile{ID: 1, FirstName: "Console", Name: "Console"},
				Text:   line,
			}
			if strings.HasPrefix(line, "/") {
				ev.Kind = flow.KindCommand
			}
			if err := dispatcher.Dispatch(ctx, ev, console); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		}
		fmt.Print("you> ")
	}
	fmt.Println("\nbye")
	return scanner.Err()
}
