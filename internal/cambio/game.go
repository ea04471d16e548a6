package cambio

import (
	"math"

	"github.com/Neenack/ScaryCardGame/internal/cards"
	"github.com/Neenack/ScaryCardGame/internal/table"
)

const tableRadius = 1.5

// NewGame seats one Cambio player per name around the table and builds
// the engine. When withHuman is set the first seat takes human input;
// every other seat runs the AI policy.
func NewGame(names []string, withHuman bool, catalog *cards.Catalog, rulesOpts []RulesOption, engineOpts ...table.EngineOption) (*table.Engine, *Rules) {
	rules := NewRules(rulesOpts...)

	players := make([]*table.Player, 0, len(names))
	for i, name := range names {
		human := withHuman && i == 0
		p := table.NewPlayer(name, human, NewSeat(rules))

		angle := 2 * math.Pi * float64(i) / float64(len(names))
		p.SetSeat(cards.Point{
			X: math.Cos(angle) * tableRadius,
			Z: math.Sin(angle) * tableRadius,
		}, angle*180/math.Pi)

		players = append(players, p)
	}

	return table.NewEngine(rules, catalog, players, engineOpts...), rules
}
