package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renderkit/husksubmit/pkg/history"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past farm submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHistory(cmd.Context(), limit, asJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum records to show (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit records as JSON")

	return cmd
}

func (c *CLI) runHistory(ctx context.Context, limit int, asJSON bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.newHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	records, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		printInfo("No submissions recorded yet")
		return nil
	}

	for _, rec := range records {
		printHistoryRecord(rec)
	}
	return nil
}

func printHistoryRecord(rec *history.Record) {
	status := styleIconSuccess.Render(iconSuccess)
	if !rec.Success {
		status = styleIconError.Render(iconError)
	}

	when := rec.SubmittedAt.Local().Format("2006-01-02 15:04")
	fmt.Println(status + " " + StyleValue.Render(rec.JobName) + "  " + StyleDim.Render(when))

	details := []string{"frames " + rec.Frames}
	if rec.BatchName != "" {
		details = append(details, "batch "+rec.BatchName)
	}
	if len(rec.Passes) > 0 {
		details = append(details, "passes "+strings.Join(rec.Passes, ", "))
	}
	printDetail("%s", strings.Join(details, "  ·  "))
	for _, out := range rec.Outputs {
		printFile(out)
	}
}
