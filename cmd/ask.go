package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/admybrand/adpulse/internal/assistant"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	flagAskPage    string
	flagAskNoDelay bool
)

var askCmd = &cobra.Command{
	Use:   "ask [summary|best-campaigns|improvements|message...]",
	Short: "Ask the campaign assistant",
	Long: "Quick actions (summary, best-campaigns, improvements) get page-specific answers;\n" +
		"any other text gets a general reply. With no arguments the quick actions are listed.",
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&flagAskPage, "page", "p", string(assistant.PageOverview), "Page context (overview, reports, campaigns)")
	askCmd.Flags().BoolVar(&flagAskNoDelay, "no-delay", false, "Reply immediately")
	rootCmd.AddCommand(askCmd)
}

func runAsk(_ *cobra.Command, args []string) error {
	page := assistant.ParsePage(flagAskPage)

	if len(args) == 0 {
		fmt.Printf("\n  Quick actions for %s:\n", page)
		for _, r := range assistant.Requests {
			fmt.Printf("    %-16s %s\n", r, assistant.PromptText(r))
		}
		fmt.Println()
		return nil
	}

	delays := assistant.DefaultDelays
	if flagAskNoDelay {
		delays = assistant.Delays{}
	}
	conv := assistant.NewConversation(page, delays)

	var spinner *pterm.SpinnerPrinter
	if !flagQuiet && !flagAskNoDelay {
		spinner, _ = pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Assistant is thinking...")
		conv.OnTyping = func() { spinner.UpdateText("Assistant is typing...") }
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var (
		reply assistant.Message
		err   error
	)
	if req, perr := assistant.ParseRequest(args[0]); perr == nil && len(args) == 1 {
		reply, err = conv.Ask(ctx, req)
	} else {
		reply, err = conv.Send(ctx, strings.Join(args, " "))
	}
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return err
	}

	for _, m := range conv.Messages() {
		who := "You"
		if m.Sender == assistant.SenderAssistant {
			who = "Assistant"
		}
		fmt.Printf("\n  %s  %s\n", pterm.Bold.Sprint(who), pterm.FgGray.Sprint(m.Timestamp.Format("15:04")))
		for _, line := range strings.Split(m.Text, "\n") {
			fmt.Printf("  %s\n", line)
		}
	}
	fmt.Println()
	appLog.Debug("assistant replied", "page", string(page), "id", reply.ID)
	return nil
}
