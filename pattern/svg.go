package pattern

import (
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/pentasign/pentasign-sdk/signing/entities"
)

const (
	ringRadius    = 600
	ringDotRadius = 180
	dotRadius     = 300
	edgeWidth     = 60
	ringWidth     = 80
	guideWidth    = 40
)

func writeSVG(nodes []entities.PatternNode, edges []entities.PatternEdge) string {
	var b strings.Builder
	full := canvasSize * unitScale

	canvas := svg.New(&b)
	canvas.Startview(canvasSize, canvasSize, 0, 0, full, full)
	canvas.Title("PentaSign visual fingerprint")
	canvas.Rect(0, 0, full, full, "fill:"+backgroundColor)

	xs, ys := pentagonVertices()
	canvas.Gid("guides")
	guideStyle := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d;stroke-opacity:0.35", guideColor, guideWidth)
	canvas.Polygon(xs, ys, guideStyle)
	c := quantize(center)
	for k := range xs {
		canvas.Line(c, c, xs[k], ys[k], guideStyle)
	}
	canvas.Gend()

	canvas.Gid("edges")
	for _, e := range edges {
		from, to := nodes[e.From], nodes[e.To]
		style := fmt.Sprintf("stroke:%s;stroke-width:%d", e.Color, edgeWidth)
		if e.Mask {
			style += ";stroke-dasharray:200,200;stroke-opacity:0.6"
		}
		canvas.Line(from.X, from.Y, to.X, to.Y, style)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range nodes {
		switch n.Kind {
		case entities.NodeRing:
			canvas.Circle(n.X, n.Y, ringRadius, fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", n.Color, ringWidth))
			canvas.Circle(n.X, n.Y, ringDotRadius, "fill:"+n.Color)
		default:
			canvas.Circle(n.X, n.Y, dotRadius, "fill:"+n.Color)
		}
	}
	canvas.Gend()

	canvas.End()
	return b.String()
}
