// Package pattern derives a deterministic visual fingerprint from a
// SHA-256 digest: a node/edge graph laid out around a pentagon, rendered as
// SVG.
package pattern

import (
	"errors"
	"fmt"

	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

// ErrInvalidDigest is returned for input that is not 64 lowercase hex characters.
var ErrInvalidDigest = errors.New("invalid digest")

// Renderer implements ports.PatternRenderer. It holds no state and is safe
// for concurrent use.
type Renderer struct{}

// NewRenderer creates a pattern renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the canonical pattern of a digest. Equal digests always
// produce byte-identical SVG.
func (r *Renderer) Render(docHashHex string) (entities.VisualPattern, error) {
	if !validDigest(docHashHex) {
		return entities.VisualPattern{}, fmt.Errorf("%w: %q", ErrInvalidDigest, docHashHex)
	}
	nodes, edges := buildGraph(docHashHex)
	return entities.VisualPattern{
		SVG:   writeSVG(nodes, edges),
		Nodes: nodes,
		Edges: edges,
	}, nil
}

// RenderMasked returns the canonical pattern overlaid with cosmetic mask
// edges seeded by nonce. It is reproducible from (digest, nonce).
func (r *Renderer) RenderMasked(docHashHex string, nonce values.MaskNonce) (entities.VisualPattern, error) {
	if !validDigest(docHashHex) {
		return entities.VisualPattern{}, fmt.Errorf("%w: %q", ErrInvalidDigest, docHashHex)
	}
	nodes, edges := buildGraph(docHashHex)
	edges = append(edges, maskEdges(docHashHex, nonce)...)
	return entities.VisualPattern{
		SVG:   writeSVG(nodes, edges),
		Nodes: nodes,
		Edges: edges,
	}, nil
}
