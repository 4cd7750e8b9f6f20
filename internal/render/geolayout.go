package render

import (
	"math"
	"sort"

	"tsdash/internal/model"
)

// Region anchors as canvas fractions, a stylized world map. Regions not
// listed here are distributed along an arc by bucket index.
var regionAnchors = []struct {
	Region string
	FX, FY float64
}{
	{"North America", 0.18, 0.30},
	{"Europe", 0.50, 0.25},
	{"Asia Pacific", 0.80, 0.35},
	{"South America", 0.30, 0.72},
	{"Africa", 0.55, 0.60},
	{"Middle East", 0.63, 0.42},
}

// layoutGeographic buckets online nodes (center included) by region and
// arranges each bucket in a 3-wide grid around its anchor. Node labels go
// above the glyph so they cannot collide with the anchor label stamped
// over each cluster.
func layoutGeographic(c *Canvas, graph *model.TopologyGraph) map[string][2]int {
	positions := make(map[string][2]int)

	buckets := make(map[string][]model.Node)
	for _, node := range graph.Nodes {
		if !node.Online && node.Hostname != graph.CenterHostname {
			continue
		}
		buckets[node.Location.Region] = append(buckets[node.Location.Region], node)
	}

	// Known regions first, in anchor order; unknown buckets follow in
	// sorted order for determinism.
	var unknown []string
	for region := range buckets {
		if !hasAnchor(region) {
			unknown = append(unknown, region)
		}
	}
	sort.Strings(unknown)

	arcIdx := 0
	for _, a := range regionAnchors {
		nodes, ok := buckets[a.Region]
		if !ok {
			continue
		}
		ax := int(a.FX * float64(c.Width()))
		ay := int(a.FY * float64(c.Height()))
		placeBucket(c, graph, positions, a.Region, nodes, ax, ay)
	}
	for _, region := range unknown {
		ax, ay := arcAnchor(c, arcIdx)
		arcIdx++
		placeBucket(c, graph, positions, region, buckets[region], ax, ay)
	}

	return positions
}

func placeBucket(c *Canvas, graph *model.TopologyGraph, positions map[string][2]int, region string, nodes []model.Node, ax, ay int) {
	// The bucket's first grid row sits at ay-2 and its node labels at
	// ay-3, so the region label stamps one row higher still.
	c.TextCentered(ax, ay-4, truncate(region, 14))
	for i, node := range nodes {
		x := ax + (i%3-1)*3
		y := ay + (i/3-1)*2
		x = clamp(x, 1, c.Width()-2)
		y = clamp(y, 1, c.Height()-2)
		positions[node.Hostname] = [2]int{x, y}
		c.Set(x, y, nodeGlyph(node, node.Hostname == graph.CenterHostname))
		c.TextCentered(x, y-1, truncate(node.Hostname, labelMax))
	}
}

// arcAnchor spreads unrecognized regions along a circular arc.
func arcAnchor(c *Canvas, idx int) (int, int) {
	theta := math.Pi/6 + float64(idx)*math.Pi/4
	cx := c.Width() / 2
	cy := c.Height() / 2
	x := cx + int(float64(c.Width())/3*math.Cos(theta))
	y := cy + int(float64(c.Height())/3*math.Sin(theta))
	return clamp(x, 2, c.Width()-3), clamp(y, 2, c.Height()-3)
}

func hasAnchor(region string) bool {
	for _, a := range regionAnchors {
		if a.Region == region {
			return true
		}
	}
	return false
}
