package index

import (
	"fmt"
	"sort"
	"strings"
)

// PlotScoresTerminal renders an ascending horizontal bar chart of scores
// to stdout, one bar per entity. names and scores are parallel slices.
func PlotScoresTerminal(names []string, scores []float64, title string) {
	if len(scores) == 0 || len(names) != len(scores) {
		fmt.Printf("\n%s: no scores to plot\n", title)
		return
	}

	type entityScore struct {
		Name  string
		Score float64
	}

	entityScores := make([]entityScore, len(scores))
	for i := range scores {
		entityScores[i] = entityScore{
			Name:  names[i],
			Score: scores[i],
		}
	}

	sort.Slice(entityScores, func(i, j int) bool {
		return entityScores[i].Score < entityScores[j].Score
	})

	minScore := entityScores[0].Score
	maxScore := entityScores[len(entityScores)-1].Score

	fmt.Printf("\n%s (Terminal Plot - Ascending Order):\n", title)
	fmt.Println("Municipality              | Score    | Bar Chart")
	fmt.Println("--------------------------|----------|" + strings.Repeat("-", 50))

	maxBarWidth := 50
	for _, es := range entityScores {
		var barWidth int
		if maxScore != minScore {
			barWidth = int((es.Score - minScore) / (maxScore - minScore) * float64(maxBarWidth))
		} else {
			barWidth = maxBarWidth / 2
		}

		bar := strings.Repeat("█", barWidth)
		if barWidth == 0 {
			bar = "▏"
		}

		fmt.Printf("%-25.25s | %.6f | %s\n", es.Name, es.Score, bar)
	}

	fmt.Printf("\nScale: Min=%.6f, Max=%.6f\n", minScore, maxScore)
}
