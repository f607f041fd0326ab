package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vikas872/nyay-sathi-clean/internal/model"
	"github.com/vikas872/nyay-sathi-clean/internal/stream"
)

var (
	askStream  bool
	askTimeout time.Duration
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a legal question from the terminal",
	Long: `Answer a legal question directly, without running the HTTP API.

Example:
  nyay ask "What is the punishment for theft?"
  nyay ask --stream "Is a verbal agreement a valid contract?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&askStream, "stream", false, "print progress events while answering")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall query timeout")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	cfg := loadConfig()
	orch, _, err := buildStack(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	if !askStream {
		printAnswer(orch.Ask(ctx, question))
		return nil
	}

	em := stream.NewEmitter()
	go orch.AskStream(ctx, question, em)

	for ev := range em.Events() {
		switch ev.Type {
		case stream.EventStatus:
			fmt.Fprintf(os.Stderr, "... %s\n", ev.Message)
		case stream.EventToolResult:
			fmt.Fprintf(os.Stderr, "    %s: %v evidence\n", ev.Message, ev.Data["evidence_added"])
		case stream.EventAnswer:
			fmt.Fprintln(os.Stderr)
			printAnswer(ev.Answer)
		}
	}
	return nil
}

func printAnswer(ans *model.Answer) {
	fmt.Println(ans.Text)
	if len(ans.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, c := range ans.Citations {
			fmt.Printf("  [%d] %s\n", c.Index, c.Label)
		}
	}
	fmt.Printf("\nMode: %s | Confidence: %s (%.2f)\n", ans.Mode, ans.Confidence, ans.Score)
	if ans.Disclaimer != "" {
		fmt.Println(ans.Disclaimer)
	}
}
