package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pentasign/pentasign-sdk/netutil"
	"github.com/pentasign/pentasign-sdk/parser"
	"github.com/pentasign/pentasign-sdk/plausibility"
	"github.com/pentasign/pentasign-sdk/schema"
	"github.com/pentasign/pentasign-sdk/signing"
	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/dto"
	"github.com/pentasign/pentasign-sdk/signing/repository"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

const (
	flagBundle               = "bundle"
	flagMetadata             = "metadata"
	flagPlausibilityEndpoint = "plausibility-endpoint"
	flagPlausibilityTimeout  = "plausibility-timeout"
	flagPlausibilityInsecure = "plausibility-insecure"

	maxBundleSize = 64 << 10
)

// ErrSignatureInvalid is returned by verify when the bundle does not
// match the document.
var ErrSignatureInvalid = errors.New("signature is not valid")

func (a *app) newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify a document against its signature bundle",
		Long: `Verify recomputes the document digest and the signed message hash and
checks the bundle's signature with the public key it carries.

The bundle is read from --bundle (JSON or YAML). Without --bundle it is looked
up by digest in the archive given by --out.

When a plausibility endpoint is configured its verdict is reported alongside
the cryptographic result. It is advisory and never changes the exit code.`,
		Args:              cobra.ExactArgs(1),
		RunE:              a.runVerify,
		DisableAutoGenTag: true,
	}

	cmd.Flags().String(flagBundle, "", "bundle file (JSON or YAML)")
	cmd.Flags().String(flagOut, "", "archive directory to look the bundle up in")
	cmd.Flags().String(flagMetadata, "", "free-form metadata passed to the plausibility service")
	cmd.Flags().String(flagPlausibilityEndpoint, "", "URL of the plausibility service")
	cmd.Flags().Duration(flagPlausibilityTimeout, 0, "timeout for the plausibility check")
	cmd.Flags().Bool(flagPlausibilityInsecure, false, "allow plain http and skip TLS verification for the plausibility service")
	cmd.Flags().Int64(flagMaxSize, 32<<20, "maximum document size in bytes")
	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, args []string) error {
	ctx := a.context(cmd)
	cfg, err := a.config()
	if err != nil {
		return err
	}

	document, err := readDocument(args[0], cfg.MaxDocumentSize)
	if err != nil {
		return err
	}

	bundlePath, _ := cmd.Flags().GetString(flagBundle)
	var bundle *entities.SignatureBundle
	if bundlePath != "" {
		bundle, err = loadBundle(bundlePath)
	} else {
		bundle, err = findArchived(cmd, cfg, document)
	}
	if err != nil {
		return err
	}

	opts := []signing.SigningServiceOption{signing.WithLogger(a.logger)}
	if cfg.Plausibility.Endpoint != "" {
		checker, err := plausibility.NewHTTPChecker(cfg.Plausibility.Endpoint,
			plausibility.WithTimeout(cfg.Plausibility.Timeout),
			plausibility.WithInsecure(cfg.Plausibility.Insecure),
			plausibility.WithLogger(a.logger),
		)
		if err != nil {
			return err
		}
		opts = append(opts, signing.WithPlausibilityChecker(checker))
	}

	metadata, _ := cmd.Flags().GetString(flagMetadata)
	report, err := signing.NewSigningService(opts...).Check(ctx, document, bundle, metadata)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.FromReport(report)); err != nil {
		return err
	}

	if !report.Cryptographic.Valid {
		return fmt.Errorf("%w: %s", ErrSignatureInvalid, report.Cryptographic.Reason)
	}
	return nil
}

// loadBundle reads a bundle file. JSON input is checked against the bundle
// schema first so that errors name the offending fields.
func loadBundle(path string) (*entities.SignatureBundle, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	raw, err := netutil.ReadAll(f, maxBundleSize)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", path, err)
	}

	p := parser.ForData(raw)
	if _, isJSON := p.(*parser.JSONBundleParser); isJSON {
		reg, err := schema.NewDefaultRegistry()
		if err != nil {
			return nil, err
		}
		if err := reg.Validate(schema.KindBundle, raw); err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrInvalidBundle, err)
		}
	}
	return p.Parse(raw)
}

func findArchived(cmd *cobra.Command, cfg Config, document []byte) (*entities.SignatureBundle, error) {
	if cfg.Out == "" {
		return nil, errors.New("either --bundle or --out is required")
	}
	repo, err := repository.NewFSBundleRepository(cfg.Out)
	if err != nil {
		return nil, err
	}
	return repo.Find(cmd.Context(), values.DigestBytes(document))
}
