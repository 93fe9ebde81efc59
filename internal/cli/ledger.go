package cli

import (
	"errors"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pentasign/pentasign-sdk/signing"
	"github.com/pentasign/pentasign-sdk/signing/filesystem"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

func (a *app) newLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "ledger",
		Short:             "Inspect the signing ledger",
		DisableAutoGenTag: true,
	}
	cmd.PersistentFlags().String(flagLedger, defaultLedgerFile, "ledger file")

	show := &cobra.Command{
		Use:   "show",
		Short: "List every recorded signing",
		Args:  cobra.NoArgs,
		RunE:  a.runLedgerShow,
	}
	find := &cobra.Command{
		Use:   "find <digest>",
		Short: "List the documents recorded with a digest",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runLedgerFind,
	}
	cmd.AddCommand(show, find)
	return cmd
}

const defaultLedgerFile = "pentasign-ledger.yaml"

func ledgerPath(cfg Config) string {
	if cfg.Ledger == "" {
		return defaultLedgerFile
	}
	return cfg.Ledger
}

func (a *app) ledgerService() *signing.LedgerService {
	return signing.NewLedgerService(filesystem.NewFileLedgerRepository())
}

func (a *app) runLedgerShow(cmd *cobra.Command, _ []string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	ledger, err := a.ledgerService().Show(a.context(cmd), ledgerPath(cfg))
	if err != nil {
		return err
	}

	names := make([]string, 0, len(ledger.Entries))
	for name := range ledger.Entries {
		names = append(names, name)
	}
	slices.Sort(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = w.Write([]byte("NAME\tDIGEST\tSOFI\tSCHEME\tKEY\tSIGNED\n"))
	for _, name := range names {
		e := ledger.Entries[name]
		_, _ = w.Write([]byte(name + "\t" + e.DocHash + "\t" + e.Sofi + "\t" + e.Scheme + "\t" +
			e.KeyFingerprint + "\t" + e.SignedAt.Format(time.RFC3339) + "\n"))
	}
	return w.Flush()
}

func (a *app) runLedgerFind(cmd *cobra.Command, args []string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	digest, err := values.ParseDigest(args[0])
	if err != nil {
		if digest, err = values.ParseHex(args[0]); err != nil {
			return err
		}
	}

	ledger, err := a.ledgerService().Show(a.context(cmd), ledgerPath(cfg))
	if err != nil {
		return err
	}
	names := ledger.FindByDigest(digest.String())
	if len(names) == 0 {
		return errors.New("no ledger entry for " + digest.String())
	}
	slices.Sort(names)
	for _, name := range names {
		printf(cmd, "%s\n", name)
	}
	return nil
}
