package generate

import (
	"fmt"
	"math/rand"

	"chronorogue/internal/component"
	"chronorogue/internal/gamemap"
	"chronorogue/internal/stage"
)

// DefaultFoeTable is the foe mix used for generated stages.
var DefaultFoeTable = []FoeEntry{
	{Kind: component.FoeAura, Name: "aura", ThreatCost: 1, HP: component.AuraHP},
	{Kind: component.FoeChaser, Name: "chaser", ThreatCost: 3, HP: component.ChaserHP},
}

// DefaultConfig returns the generation settings for a generated stage.
func DefaultConfig(seed int64) *Config {
	return &Config{
		MapWidth:      60,
		MapHeight:     24,
		MinLeafSize:   8,
		MaxLeafSize:   18,
		MinRoomSize:   4,
		RoomPadding:   1,
		CorridorStyle: CorridorStyle(seed % 3),
		FoeBudget:     8,
		FoeTable:      DefaultFoeTable,
		SpawnCount:    4,
		OrbSpawnCount: 4,
		RubblePerRoom: 2,
		Windows:       6,
		Rand:          rand.New(rand.NewSource(seed)),
	}
}

// Stage generates a complete stage template. Foes are numbered per kind in
// placement order.
func Stage(id, name string, seed int64, cfg *Config) (*stage.Template, error) {
	gmap, _ := Generate(cfg)
	if len(gmap.Rooms) == 0 {
		return nil, fmt.Errorf("generate %s: no rooms carved", id)
	}
	pop := Populate(gmap, cfg)
	for _, p := range pop.Rubble {
		gmap.Set(p.X, p.Y, gamemap.MakeRubble())
	}

	t := &stage.Template{
		ID:            id,
		Name:          name,
		Map:           gmap,
		AllowedSenses: component.AllSenses,
		FocusRegen:    stage.DefaultFocusRegen,
		Seed:          seed,
		Spawns:        pop.Spawns,
		OrbSpawns:     pop.Orbs,
	}
	counts := map[component.FoeKind]int{}
	for _, f := range pop.Foes {
		counts[f.Entry.Kind]++
		t.Foes = append(t.Foes, stage.FoeSpawn{
			ID:   fmt.Sprintf("%s-%d", f.Entry.Kind, counts[f.Entry.Kind]),
			Kind: f.Entry.Kind,
			Name: f.Entry.Name,
			Pos:  f.Pos,
			HP:   f.Entry.HP,
		})
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("generate %s: %w", id, err)
	}
	return t, nil
}
