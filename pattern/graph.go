package pattern

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"math/rand/v2"

	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

// Canvas geometry in canvas units. Output coordinates are multiplied by
// unitScale and rounded, so the emitted viewBox is 22000x22000.
const (
	canvasSize = 220
	unitScale  = 100
	center     = canvasSize / 2.0

	segmentCount = 16
	segmentWidth = 4 // hex characters per segment
	digestLength = segmentCount * segmentWidth

	minRadius   = 20.0
	maxRadius   = 100.0
	spokeRadius = 105.0
)

const (
	backgroundColor = "#050505"
	maskColor       = "#888888"
	guideColor      = "#4A6C82"
)

var palette = [...]string{"#C69572", "#94B4C6", "#4A6C82", "#F2F4F6", "#888888"}

func validDigest(s string) bool {
	if len(s) != digestLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// buildGraph places one node per digest segment. The high byte of a
// segment picks the angle inside the segment's own sector, the low byte
// picks the radius, so every segment moves exactly one node.
func buildGraph(docHashHex string) ([]entities.PatternNode, []entities.PatternEdge) {
	raw, _ := hex.DecodeString(docHashHex)

	nodes := make([]entities.PatternNode, 0, segmentCount)
	for i := range segmentCount {
		hi, lo := raw[2*i], raw[2*i+1]

		angle := 2*math.Pi*(float64(i)+float64(hi)/256)/segmentCount - math.Pi/2
		radius := minRadius + (maxRadius-minRadius)*float64(lo)/255

		kind := entities.NodeDot
		if i%2 == 0 {
			kind = entities.NodeRing
		}

		nodes = append(nodes, entities.PatternNode{
			Segment: i,
			Kind:    kind,
			Color:   palette[(i+int(lo&0x0f))%len(palette)],
			X:       quantize(center + radius*math.Cos(angle)),
			Y:       quantize(center + radius*math.Sin(angle)),
		})
	}

	edgeColor := palette[int(raw[0])%len(palette)]
	edges := make([]entities.PatternEdge, 0, segmentCount)
	for i := range segmentCount {
		edges = append(edges, entities.PatternEdge{
			From:  i,
			To:    (i + 1) % segmentCount,
			Color: edgeColor,
		})
	}
	return nodes, edges
}

// maskEdges returns nonce-seeded chords between non-adjacent nodes.
// The result depends only on (digest, nonce).
func maskEdges(docHashHex string, nonce values.MaskNonce) []entities.PatternEdge {
	raw, _ := hex.DecodeString(docHashHex)
	rng := rand.New(rand.NewPCG(uint64(nonce), binary.BigEndian.Uint64(raw[:8])))

	count := 3 + int(nonce%3)
	edges := make([]entities.PatternEdge, 0, count)
	for range count {
		from := rng.IntN(segmentCount)
		to := (from + 2 + rng.IntN(segmentCount-3)) % segmentCount
		edges = append(edges, entities.PatternEdge{
			From:  from,
			To:    to,
			Color: maskColor,
			Mask:  true,
		})
	}
	return edges
}

// pentagonVertices returns the five fixed guide points, top vertex first.
func pentagonVertices() (xs, ys []int) {
	for k := range 5 {
		angle := -math.Pi/2 + float64(k)*2*math.Pi/5
		xs = append(xs, quantize(center+spokeRadius*math.Cos(angle)))
		ys = append(ys, quantize(center+spokeRadius*math.Sin(angle)))
	}
	return xs, ys
}

func quantize(v float64) int {
	return int(math.Round(v * unitScale))
}
