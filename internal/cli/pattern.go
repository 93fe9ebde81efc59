package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pentasign/pentasign-sdk/pattern"
	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

const (
	flagNonce  = "nonce"
	flagOutput = "output"
)

func (a *app) newPatternCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern <sha256-hex>",
		Short: "Render the visual fingerprint of a digest as SVG",
		Long: `Render the pentagon pattern of a SHA-256 digest.

The canonical pattern depends on the digest only. With --nonce, cosmetic mask
edges seeded by the nonce are drawn on top; they carry no information.`,
		Example: `  pentasign pattern b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9 > hello.svg`,
		Args:              cobra.ExactArgs(1),
		RunE:              a.runPattern,
		DisableAutoGenTag: true,
	}
	cmd.Flags().Uint32(flagNonce, 0, "mask nonce; draws mask edges when set")
	cmd.Flags().StringP(flagOutput, "o", "", "write the SVG to a file instead of stdout")
	return cmd
}

func (a *app) runPattern(cmd *cobra.Command, args []string) error {
	digest, err := values.ParseDigest(args[0])
	if err != nil {
		if digest, err = values.ParseHex(args[0]); err != nil {
			return err
		}
	}

	renderer := pattern.NewRenderer()
	var visual entities.VisualPattern
	if cmd.Flags().Changed(flagNonce) {
		nonce, _ := cmd.Flags().GetUint32(flagNonce)
		visual, err = renderer.RenderMasked(digest.Hex(), values.MaskNonce(nonce))
	} else {
		visual, err = renderer.Render(digest.Hex())
	}
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString(flagOutput); out != "" {
		a.logger.Debug("writing pattern", "doc_hash", digest.Hex(), "path", out)
		return os.WriteFile(out, []byte(visual.SVG), 0o600)
	}
	printf(cmd, "%s\n", visual.SVG)
	return nil
}
