package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

type BlockStat struct {
	// The first frame row and the block height.
	BlockY uint32
	BlockH uint32

	// Render time for this block.
	RenderTime time.Duration

	// Traversal counters accumulated over all block rays.
	Rays             uint64
	Hits             uint64
	NodesVisited     uint64
	PrimitivesTested uint64
}

type FrameStats struct {
	// Individual block stats in frame order.
	Blocks []BlockStat

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Sum the counters of all frame blocks.
func (fs FrameStats) Totals() BlockStat {
	var total BlockStat
	for _, block := range fs.Blocks {
		total.BlockH += block.BlockH
		total.Rays += block.Rays
		total.Hits += block.Hits
		total.NodesVisited += block.NodesVisited
		total.PrimitivesTested += block.PrimitivesTested
	}
	total.RenderTime = fs.RenderTime
	return total
}

// Render frame stats as a table.
func (fs FrameStats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Block", "Rows", "Rays", "Hits", "Nodes/ray", "Tests/ray", "Render time"})
	for _, stat := range fs.Blocks {
		table.Append(statRow(fmt.Sprintf("%d", stat.BlockY), stat))
	}
	table.SetFooter(statRow("TOTAL", fs.Totals()))

	table.Render()
	return buf.String()
}

func statRow(label string, stat BlockStat) []string {
	return []string{
		label,
		fmt.Sprintf("%d", stat.BlockH),
		fmt.Sprintf("%d", stat.Rays),
		fmt.Sprintf("%d", stat.Hits),
		fmt.Sprintf("%.1f", perRay(stat.NodesVisited, stat.Rays)),
		fmt.Sprintf("%.1f", perRay(stat.PrimitivesTested, stat.Rays)),
		stat.RenderTime.String(),
	}
}

func perRay(count, rays uint64) float64 {
	if rays == 0 {
		return 0
	}
	return float64(count) / float64(rays)
}
