package render

import (
	"math"
	"strings"

	"tsdash/internal/model"
)

// Mode selects a topology layout policy.
type Mode string

const (
	ModeStandard   Mode = "standard"
	ModeGeographic Mode = "geo"
)

// Node glyphs. The center always gets its own glyph; peers are keyed by
// exit-node role, then OS family; offline peers share one glyph.
const (
	glyphCenter  = '◉'
	glyphExit    = '⬢'
	glyphMobile  = '▣'
	glyphLinux   = '●'
	glyphWindows = '◩'
	glyphMac     = '◆'
	glyphGeneric = '○'
	glyphOffline = '✗'
)

// Edge stroke glyphs by quality tier.
var qualityGlyphs = map[model.Quality]rune{
	model.QualityExcellent: '═',
	model.QualityGood:      '─',
	model.QualityFair:      '┄',
	model.QualityPoor:      '╌',
	model.QualityUnknown:   '·',
}

const (
	maxOfflineShown = 8
	offlineSpacing  = 9
	labelMax        = 8
)

// Topology renders a graph onto a width x height grid. An empty or
// malformed graph yields a blank (or center-only) grid, never an error.
func Topology(graph *model.TopologyGraph, width, height int, mode Mode) *Canvas {
	c := NewCanvas(width, height)
	if graph == nil || len(graph.Nodes) == 0 {
		return c
	}

	var positions map[string][2]int
	if mode == ModeGeographic {
		positions = layoutGeographic(c, graph)
	} else {
		positions = layoutStandard(c, graph)
	}

	drawEdges(c, graph, positions)
	return c
}

// layoutStandard places the center mid-grid and online peers on an
// ellipse at equal angular steps, offline peers in a strip along the
// bottom row. Returns each positioned node's grid cell.
func layoutStandard(c *Canvas, graph *model.TopologyGraph) map[string][2]int {
	positions := make(map[string][2]int)
	cx := c.Width() / 2
	cy := c.Height() / 2

	rx := math.Min(float64(c.Width())/3, 20)
	ry := math.Min(float64(c.Height())/3, 8)

	var online, offline []model.Node
	for _, node := range graph.Nodes {
		if node.Hostname == graph.CenterHostname {
			continue
		}
		if node.Online {
			online = append(online, node)
		} else {
			offline = append(offline, node)
		}
	}

	for i, node := range online {
		theta := 2 * math.Pi * float64(i) / float64(len(online))
		x := cx + int(math.Round(rx*math.Cos(theta)))
		y := cy + int(math.Round(ry*math.Sin(theta)))
		x = clamp(x, 2, c.Width()-3)
		y = clamp(y, 1, c.Height()-2)
		positions[node.Hostname] = [2]int{x, y}
		c.Set(x, y, nodeGlyph(node, false))
		c.TextCentered(x, y+1, truncate(node.Hostname, labelMax))
	}

	for i, node := range offline {
		if i >= maxOfflineShown {
			break
		}
		x := 2 + i*offlineSpacing
		y := c.Height() - 1
		positions[node.Hostname] = [2]int{x, y}
		c.Set(x, y, glyphOffline)
		c.Text(x+1, y, truncate(node.Hostname, labelMax-1))
	}

	// Center drawn last so spokes and peer labels cannot cover it.
	positions[graph.CenterHostname] = [2]int{cx, cy}
	c.Set(cx, cy, glyphCenter)
	c.TextCentered(cx, cy+1, truncate(graph.CenterHostname, labelMax))

	return positions
}

func drawEdges(c *Canvas, graph *model.TopologyGraph, positions map[string][2]int) {
	for _, edge := range graph.Connections {
		src, ok := positions[edge.Source]
		if !ok {
			continue
		}
		dst, ok := positions[edge.Target]
		if !ok {
			continue
		}
		glyph, ok := qualityGlyphs[edge.Quality]
		if !ok {
			glyph = qualityGlyphs[model.QualityUnknown]
		}
		c.Line(src[0], src[1], dst[0], dst[1], glyph)
	}
}

func nodeGlyph(node model.Node, isCenter bool) rune {
	if isCenter {
		return glyphCenter
	}
	if !node.Online {
		return glyphOffline
	}
	if node.IsExitNode {
		return glyphExit
	}
	switch strings.ToLower(node.OS) {
	case "ios", "android":
		return glyphMobile
	case "linux":
		return glyphLinux
	case "windows":
		return glyphWindows
	case "macos", "darwin":
		return glyphMac
	default:
		return glyphGeneric
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
