package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-validator/internal/logger"
	"github.com/insightdelivered/statement-validator/internal/models"
	"github.com/insightdelivered/statement-validator/internal/reconcile"
	"github.com/insightdelivered/statement-validator/internal/writer"
)

func newValidateCommand(g *globals) *cobra.Command {
	var output string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "validate <ledger.csv>",
		Short: "Recompute the Status column of a ledger CSV",
		Long: `Validate reads a ledger written by process (possibly edited by hand),
recomputes the running balance from its Type, Amount and Balance columns and
reports every row that does not add up. The input is left unchanged unless
--output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.FromContext(cmd.Context())

			txns, err := writer.ReadCSVFile(args[0])
			if err != nil {
				return err
			}
			res := &models.Result{
				Transactions: txns,
				Diagnostics:  reconcile.Validate(txns),
			}
			logger.LogDiagnostics(log, res.Diagnostics)

			if output != "" {
				sink, err := writer.New(writer.FormatFromPath(output, writer.Format(g.cfg.Output.Format)))
				if err != nil {
					return err
				}
				if err := sink.WriteToFile(output, txns); err != nil {
					return err
				}
			}

			if err := printSummary(cmd.OutOrStdout(), res, output, jsonOut); err != nil {
				return err
			}
			if s := res.Summarize(); s.Mismatched > 0 || s.Unknown > 0 {
				return fmt.Errorf("%d of %d rows failed validation", s.Mismatched+s.Unknown, s.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the revalidated ledger here")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the summary and diagnostics as JSON")

	return cmd
}
