package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	pentasign "github.com/pentasign/pentasign-sdk"
	"github.com/pentasign/pentasign-sdk/netutil"
	"github.com/pentasign/pentasign-sdk/signing"
	"github.com/pentasign/pentasign-sdk/signing/dto"
	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/filesystem"
	"github.com/pentasign/pentasign-sdk/signing/keys"
	"github.com/pentasign/pentasign-sdk/signing/repository"
)

const (
	flagSofi        = "sofi"
	flagGlob        = "glob"
	flagScheme      = "scheme"
	flagOut         = "out"
	flagLedger      = "ledger"
	flagNumericSofi = "numeric-sofi"
	flagConcurrency = "concurrency"
	flagMaxSize     = "max-document-size"
)

func (a *app) newSignCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign [file]...",
		Short: "Sign one or more documents",
		Long: `Sign documents with a fresh key pair per document.

Each document is hashed with SHA-256; the hex digest concatenated with the
SOFI ID is hashed again and signed. The key pair is discarded afterwards.

Without --out, bundles are written to stdout as JSON: a single bundle for one
document, an object keyed by file name for several. With --out, each bundle
is archived under <out>/sha256/<digest>/ together with its pattern SVG.`,
		Example: `  pentasign sign contract.pdf --sofi 1234
  pentasign sign --glob 'invoices/**/*.pdf' --sofi 1234 --out ./signed --ledger ./signed/ledger.yaml`,
		RunE:              a.runSign,
		DisableAutoGenTag: true,
	}

	cmd.Flags().String(flagSofi, "", "SOFI ID to bind into the signature (prompted when omitted on a terminal)")
	cmd.Flags().StringArray(flagGlob, nil, "sign every file matching the pattern (doublestar syntax, repeatable)")
	cmd.Flags().String(flagScheme, keys.SchemeEd25519, fmt.Sprintf("key scheme (%v)", keys.Names()))
	cmd.Flags().String(flagOut, "", "archive directory for bundles and patterns")
	cmd.Flags().String(flagLedger, "", "ledger file recording each signing")
	cmd.Flags().Bool(flagNumericSofi, false, "require a numeric SOFI ID")
	cmd.Flags().Int(flagConcurrency, 4, "maximum number of documents signed in parallel")
	cmd.Flags().Int64(flagMaxSize, 32<<20, "maximum document size in bytes")
	return cmd
}

type signedFile struct {
	result *entities.SigningResult
	path   string
}

func (a *app) runSign(cmd *cobra.Command, args []string) error {
	ctx := a.context(cmd)
	cfg, err := a.config()
	if err != nil {
		return err
	}

	globs, err := cmd.Flags().GetStringArray(flagGlob)
	if err != nil {
		return err
	}
	files, err := collectFiles(args, globs)
	if err != nil {
		return err
	}

	sofi, err := a.resolveIdentity(cfg)
	if err != nil {
		return err
	}

	scheme, err := keys.Lookup(cfg.Scheme)
	if err != nil {
		return err
	}
	svc := signing.NewSigningService(
		signing.WithKeyScheme(scheme),
		signing.WithLogger(a.logger),
	)

	mws := []pentasign.Middleware{
		pentasign.LoggingMiddleware(a.logger),
		pentasign.SizeLimitMiddleware(cfg.MaxDocumentSize),
	}
	if cfg.NumericSofi {
		mws = append(mws, pentasign.NumericIdentityMiddleware())
	}
	sign := pentasign.Chain(svc.Sign, mws...)

	signed, err := signFiles(ctx, sign, files, sofi, cfg)
	if err != nil {
		return err
	}

	if cfg.Out == "" {
		if err := writeBundles(cmd, signed); err != nil {
			return err
		}
		if cfg.Ledger == "" {
			return nil
		}
	}
	return a.archive(ctx, cmd, cfg, scheme.Name(), signed)
}

func (a *app) resolveIdentity(cfg Config) (string, error) {
	if cfg.Sofi != "" {
		return cfg.Sofi, nil
	}
	if !a.prompter.IsInteractive() {
		return "", fmt.Errorf("%w: --sofi is required when not running on a terminal", entities.ErrInvalidIdentity)
	}
	return a.prompter.PromptIdentity(cfg.NumericSofi)
}

// collectFiles returns args followed by every glob match, without
// duplicates and in a stable order.
func collectFiles(args, globs []string) ([]string, error) {
	files := slices.Clone(args)
	for _, pattern := range globs {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		slices.Sort(matches)
		files = append(files, matches...)
	}

	seen := make(map[string]bool, len(files))
	out := files[:0]
	for _, f := range files {
		clean := filepath.Clean(f)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		out = append(out, clean)
	}
	if len(out) == 0 {
		return nil, errors.New("no documents to sign: pass files or --glob")
	}
	return out, nil
}

func signFiles(ctx context.Context, sign pentasign.SignFunc, files []string, sofi string, cfg Config) ([]signedFile, error) {
	signed := make([]signedFile, len(files))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Concurrency)
	for i, path := range files {
		eg.Go(func() error {
			document, err := readDocument(path, cfg.MaxDocumentSize)
			if err != nil {
				return err
			}
			result, err := sign(egctx, document, sofi)
			if err != nil {
				return fmt.Errorf("signing %s: %w", path, err)
			}
			signed[i] = signedFile{path: path, result: result}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return signed, nil
}

func readDocument(path string, limit int64) ([]byte, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := netutil.ReadAll(f, limit)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func writeBundles(cmd *cobra.Command, signed []signedFile) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if len(signed) == 1 {
		return enc.Encode(dto.FromBundle(signed[0].result.Bundle))
	}
	byFile := make(map[string]*dto.BundleDTO, len(signed))
	for _, s := range signed {
		byFile[s.path] = dto.FromBundle(s.result.Bundle)
	}
	return enc.Encode(byFile)
}

// archive stores results under --out and records them in the ledger.
// Ledger writes are sequential because every entry rewrites the same file.
// Without --out the bundles already went to stdout, so nothing is printed.
func (a *app) archive(ctx context.Context, cmd *cobra.Command, cfg Config, scheme string, signed []signedFile) error {
	var repo *repository.FSBundleRepository
	if cfg.Out != "" {
		var err error
		if repo, err = repository.NewFSBundleRepository(cfg.Out); err != nil {
			return err
		}
	}
	ledger := signing.NewLedgerService(filesystem.NewFileLedgerRepository())

	for _, s := range signed {
		dir := ""
		if repo != nil {
			var err error
			if dir, err = repo.Store(ctx, s.result); err != nil {
				return fmt.Errorf("archiving %s: %w", s.path, err)
			}
		}
		if cfg.Ledger != "" {
			if _, err := ledger.Record(ctx, cfg.Ledger, s.path, scheme, s.result, dir); err != nil {
				return fmt.Errorf("recording %s: %w", s.path, err)
			}
		}
		if repo != nil {
			printf(cmd, "%s\t%s\t%s\n", s.path, s.result.Bundle.DocHash().Hex(), dir)
		}
	}
	return nil
}
