package deck

import (
	"fmt"
	"sort"
)

// Scenario is a named deal order used to demo or test a game situation.
// Cards are listed in draw order: the first player's two cards, then the
// dealer's two cards, then any replacement or hit cards.
type Scenario struct {
	Name        string
	Description string
	Cards       []Card
	// Kind is the smallest deck that contains every stacked card.
	Kind Kind
}

var scenarios = map[string]Scenario{
	"split": {
		Name:        "split",
		Description: "player is dealt an identical pair",
		Cards:       MustParseCards("8h8h"),
		Kind:        SixPack,
	},
	"double": {
		Name:        "double",
		Description: "player starts on 10 and may double down",
		Cards:       MustParseCards("6h4d"),
		Kind:        Standard,
	},
	"natural": {
		Name:        "natural",
		Description: "player is dealt a natural",
		Cards:       MustParseCards("AhKd"),
		Kind:        Standard,
	},
	"naturals": {
		Name:        "naturals",
		Description: "player and dealer are both dealt naturals",
		Cards:       MustParseCards("AhKdAsQc"),
		Kind:        Standard,
	},
	"split-double": {
		Name:        "split-double",
		Description: "identical pair whose split hands can both double down",
		Cards:       MustParseCards("8h8h2s3c2d3d"),
		Kind:        SixPack,
	},
}

// LookupScenario returns the named scenario.
func LookupScenario(name string) (Scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario %q (available: %v)", name, ScenarioNames())
	}
	return s, nil
}

// ScenarioNames lists the known scenarios in sorted order.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
