package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Neenack/ScaryCardGame/internal/cambio"
	"github.com/Neenack/ScaryCardGame/internal/oldmaid"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).MarginTop(1)
	winnerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	loserStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	rowStyle    = lipgloss.NewStyle().PaddingLeft(2)
)

func renderCambioResult(result *cambio.Result) {
	fmt.Println(titleStyle.Render("Final scores"))

	names := make([]string, 0, len(result.Scores))
	for name := range result.Scores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return result.Scores[names[i]] < result.Scores[names[j]]
	})

	for _, name := range names {
		row := name + strings.Repeat(" ", max(1, 12-len(name))) + strconv.Itoa(result.Scores[name])
		if name == result.Winner {
			row = winnerStyle.Render(row + "  « winner")
		}
		fmt.Println(rowStyle.Render(row))
	}
}

func renderOldMaidResult(result *oldmaid.Result) {
	fmt.Println(titleStyle.Render("Game over"))
	fmt.Println(rowStyle.Render(loserStyle.Render(result.Loser + " is the old maid")))
}
