package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dailypay/internal/app/server"
	"dailypay/internal/domain/auth"
	"dailypay/internal/domain/ledger"
	"dailypay/internal/domain/report"
	"dailypay/internal/domain/session"
	"dailypay/internal/domain/tabulation"
	"dailypay/internal/platform/config"
)

type options struct {
	backend    string
	ledgerPath string
	dbURL      string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cfg, cfgErr := config.FromEnvironment()

	rootCmd := &cobra.Command{
		Use:           "payoutctl",
		Short:         "Inspect and maintain the payout ledger",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return cfgErr
	}
	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", cfg.LedgerBackend, "Ledger backend (file, postgres)")
	rootCmd.PersistentFlags().StringVar(&opts.ledgerPath, "ledger", cfg.LedgerPath, "Path of the file ledger")
	rootCmd.PersistentFlags().StringVar(&opts.dbURL, "database-url", cfg.DatabaseURL, "Postgres URL for the postgres ledger")

	rootCmd.AddCommand(statusCmd(opts, cfg))
	rootCmd.AddCommand(resetCmd(opts, cfg))
	rootCmd.AddCommand(previewCmd(opts, cfg))
	rootCmd.AddCommand(hashPasswordCmd())
	return rootCmd
}

func openLedger(ctx context.Context, opts *options, cfg config.Config) (ledger.Store, func(), error) {
	cfg.LedgerBackend = strings.ToLower(opts.backend)
	cfg.LedgerPath = opts.ledgerPath
	cfg.DatabaseURL = opts.dbURL
	store, pool, err := server.OpenLedger(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if pool != nil {
			pool.Close()
		}
	}
	return store, closeFn, nil
}

func statusCmd(opts *options, cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show processed file count and warning counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openLedger(cmd.Context(), opts, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			state, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed files: %d\n", len(state.Fingerprints))
			fmt.Fprintln(out, "Warning count:")
			lines := report.WarningLines(state.Warnings)
			if len(lines) == 0 {
				fmt.Fprintln(out, "None")
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func resetCmd(opts *options, cfg config.Config) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear processed fingerprints and all warning counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset clears every fingerprint and warning; pass --yes to confirm")
			}
			store, closeFn, err := openLedger(cmd.Context(), opts, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := store.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ledger reset.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

func previewCmd(opts *options, cfg config.Config) *cobra.Command {
	var penaltiesText string
	var crossCheckerLogs int64
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Render the report for a work log without recording it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			rows, err := tabulation.Parse(data)
			if err != nil {
				return err
			}
			penalties, err := session.ParsePenalties(strings.ReplaceAll(penaltiesText, ";", "\n"))
			if err != nil {
				return err
			}
			if crossCheckerLogs < 0 {
				return errors.New("--cross must not be negative")
			}
			result, err := session.CalculateFor(tabulation.Aggregate(rows), penalties, crossCheckerLogs)
			if err != nil {
				return err
			}

			store, closeFn, err := openLedger(cmd.Context(), opts, cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			state, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if state.HasContent(data) {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: %s was already processed\n", ledger.FingerprintOf(data))
			}

			workers := make([]string, 0, len(penalties))
			for _, penalty := range penalties {
				workers = append(workers, penalty.Worker)
			}
			owners := report.Owners{A: cfg.OwnerAName, B: cfg.OwnerBName}
			fmt.Fprint(cmd.OutOrStdout(), report.Render(result, state.Warnings.With(workers), owners, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&penaltiesText, "penalties", "None", "Penalties as \"<worker> <amount>\", separated by ';'")
	cmd.Flags().Int64Var(&crossCheckerLogs, "cross", 0, "Cross-checker log count")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for OPERATOR_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
