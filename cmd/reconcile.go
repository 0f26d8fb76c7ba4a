package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ehhop/formulary-reconciler/config"
	"github.com/ehhop/formulary-reconciler/formularyparser"
	"github.com/ehhop/formulary-reconciler/interfaces"
	"github.com/ehhop/formulary-reconciler/logging"
	"github.com/ehhop/formulary-reconciler/reconciler"
	"github.com/ehhop/formulary-reconciler/validation"
)

var (
	formularyPath  string
	invoicePath    string
	outputPath     string
	skipUnapproved bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Update formulary costs from an invoice",
	Long: `Parses the formulary markdown and the invoice CSV, matches records by
normalized (drug name, dose), rewrites formulary costs where the invoice
disagrees, and writes the regenerated formulary. On a fatal parse error no
output is produced: a partially updated formulary is never emitted.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&formularyPath, "formulary", "f", "", "path to the formulary markdown document (required)")
	reconcileCmd.Flags().StringVarP(&invoicePath, "invoice", "i", "", "path to the invoice CSV document (required)")
	reconcileCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path for the regenerated formulary (default: stdout)")
	reconcileCmd.Flags().BoolVar(&skipUnapproved, "skip-unapproved", false, "leave blacklisted drugs out of price reconciliation")

	_ = reconcileCmd.MarkFlagRequired("formulary")
	_ = reconcileCmd.MarkFlagRequired("invoice")

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.LogDir, cfg.SlogLevel(), cfg.LogRetentionWeeks)

	// Flag beats env var when given explicitly
	skip := cfg.SkipUnapproved
	if cmd.Flags().Changed("skip-unapproved") {
		skip = skipUnapproved
	}

	formularyText, err := os.ReadFile(formularyPath)
	if err != nil {
		return fmt.Errorf("failed to read formulary: %w", err)
	}
	invoiceText, err := os.ReadFile(invoicePath)
	if err != nil {
		return fmt.Errorf("failed to read invoice: %w", err)
	}

	parser := formularyparser.NewDocumentParser()

	formulary, err := parser.ParseFormulary(string(formularyText))
	if err != nil {
		return fmt.Errorf("formulary parse failed: %w", err)
	}
	logging.Info("Formulary parsed", "records", len(formulary.Records))

	for _, violation := range validation.NewDataValidator().ValidateFormulary(formulary) {
		logging.Warn("Formulary record failed validation", "error", violation)
	}

	items, rowErrors, err := parser.ParseInvoice(string(invoiceText))
	if err != nil {
		return fmt.Errorf("invoice parse failed: %w", err)
	}
	logging.Info("Invoice parsed", "items", len(items), "rows_skipped", len(rowErrors))

	engine := reconciler.New(skip)
	result := engine.Match(formulary, items)
	changes := engine.Reconcile(result)

	report := &interfaces.ReconcileReport{
		Changes:   changes,
		NewDrugs:  result.NewDrugs,
		NewDoses:  result.NewDoses,
		RowErrors: rowErrors,
		Warnings:  result.Warnings,
	}
	fmt.Fprint(cmd.ErrOrStderr(), report.Summary())

	output := parser.Serialize(formulary)
	if outputPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
		return fmt.Errorf("failed to write output formulary: %w", err)
	}
	logging.Info("Formulary written", "path", outputPath, "changes", len(changes))

	return nil
}
