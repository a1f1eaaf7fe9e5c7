// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package spawns implements the spawns XML sidecar (spec.md §4.6):
// spawn centers, their creature rosters, and the load-time discard and
// auto-grow rules that keep a spawn consistent with the tiles it
// actually reaches.
package spawns

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"

	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
)

type document struct {
	XMLName xml.Name     `xml:"spawns"`
	Spawns  []spawnEntry `xml:"spawn"`
}

type spawnEntry struct {
	CenterX  uint16         `xml:"centerx,attr"`
	CenterY  uint16         `xml:"centery,attr"`
	CenterZ  uint8          `xml:"centerz,attr"`
	Radius   int            `xml:"radius,attr"`
	Monsters []creatureElem `xml:"monster"`
	NPCs     []creatureElem `xml:"npc"`
}

type creatureElem struct {
	Name      string `xml:"name,attr"`
	SpawnTime int    `xml:"spawntime,attr"`
	Direction int    `xml:"direction,attr"`
	X         int    `xml:"x,attr"`
	Y         int    `xml:"y,attr"`
}

// Options bundles the environment settings and catalog the load pass
// needs (spec.md §6 DEFAULT_SPAWNTIME/MAX_SPAWN_RADIUS, §4.6 creature
// catalog).
type Options struct {
	DefaultSpawnTime int
	MaxSpawnRadius   int
	Creatures        catalog.CreatureCatalog
}

// Load reads path and applies spec.md §4.6's discard/auto-grow rules,
// populating m.Spawns and each affected tile's Creature.
func Load(path string, m *mapmodel.Map, opts Options) (warnings []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{fmt.Sprintf("spawns sidecar %s not found, no spawns loaded", path)}, nil
		}
		return nil, err
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("spawns sidecar %s is not valid XML, ignored: %v", path, err)}, nil
	}

	seenCenters := map[mapmodel.Position]bool{}
	for _, se := range doc.Spawns {
		if se.CenterX == 0 || se.CenterY == 0 {
			warnings = append(warnings, "spawn with centerx or centery == 0 discarded")
			continue
		}
		if se.Radius < 1 {
			warnings = append(warnings, "spawn with radius < 1 discarded")
			continue
		}
		center := mapmodel.Position{X: se.CenterX, Y: se.CenterY, Z: se.CenterZ}
		if seenCenters[center] {
			warnings = append(warnings, fmt.Sprintf("duplicate spawn at %+v discarded", center))
			continue
		}
		seenCenters[center] = true

		sp := &mapmodel.Spawn{Center: center, Radius: se.Radius}
		ws := loadCreatures(m, sp, se.Monsters, false, opts)
		warnings = append(warnings, ws...)
		ws = loadCreatures(m, sp, se.NPCs, true, opts)
		warnings = append(warnings, ws...)

		if sp.Radius > opts.MaxSpawnRadius && opts.MaxSpawnRadius > 0 {
			sp.Radius = opts.MaxSpawnRadius
		}
		m.Spawns[center] = sp
		if tile := m.Tiles[center]; tile != nil {
			tile.Spawn = sp
		}
	}
	return warnings, nil
}

func loadCreatures(m *mapmodel.Map, sp *mapmodel.Spawn, elems []creatureElem, isNPC bool, opts Options) (warnings []string) {
	for _, ce := range elems {
		if ce.Name == "" {
			warnings = append(warnings, fmt.Sprintf("spawn at %+v: creature missing name, remainder discarded", sp.Center))
			return warnings
		}
		if ce.X == 0 && ce.Y == 0 {
			warnings = append(warnings, fmt.Sprintf("spawn at %+v: creature %q missing x/y, remainder discarded", sp.Center, ce.Name))
			return warnings
		}

		spawnTime := ce.SpawnTime
		if spawnTime == 0 {
			spawnTime = opts.DefaultSpawnTime
		}
		dir := mapmodel.Direction(ce.Direction)
		if ce.Direction < int(mapmodel.North) || ce.Direction > int(mapmodel.SouthWest) {
			dir = mapmodel.North
		}

		pos := mapmodel.Position{
			X: uint16(int(sp.Center.X) + ce.X),
			Y: uint16(int(sp.Center.Y) + ce.Y),
			Z: sp.Center.Z,
		}
		tile := m.Tiles[pos]
		if tile == nil {
			warnings = append(warnings, fmt.Sprintf("spawn at %+v: creature %q has no tile at %+v, discarded", sp.Center, ce.Name, pos))
			continue
		}
		if tile.Creature != nil {
			warnings = append(warnings, fmt.Sprintf("tile at %+v already has a creature, %q discarded", pos, ce.Name))
			continue
		}

		if opts.Creatures != nil && opts.Creatures.CreatureType(ce.Name) == nil {
			opts.Creatures.AddMissing(ce.Name, isNPC)
		}

		sp.Creatures = append(sp.Creatures, &mapmodel.SpawnCreature{
			Name:      ce.Name,
			OffsetX:   ce.X,
			OffsetY:   ce.Y,
			SpawnTime: spawnTime,
			Direction: dir,
			IsNPC:     isNPC,
		})
		tile.Creature = &mapmodel.Creature{Name: ce.Name, IsNPC: isNPC, SpawnTime: spawnTime, Direction: dir}

		radius := maxInt(abs(ce.X), abs(ce.Y))
		if radius > sp.Radius {
			sp.Radius = radius
		}
		if tile.Spawn == nil {
			// spec.md §4.6: a creature whose own tile carries no spawn
			// gets an implicit radius-5 spawn created at its position.
			// Only tile.Spawn is checked, not whether another spawn's
			// radius already covers the tile.
			implicit := &mapmodel.Spawn{Center: pos, Radius: 5}
			m.Spawns[pos] = implicit
			tile.Spawn = implicit
		}
	}
	return warnings
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Save writes m's spawns to path. Each creature is emitted under the
// first spawn whose bounded square reaches its tile; a creature marked
// saved is skipped under every subsequent overlapping spawn so it
// appears exactly once (spec.md §4.6, §8 "Spawn dedup").
func Save(path string, m *mapmodel.Map) error {
	doc := document{Spawns: make([]spawnEntry, 0, len(m.Spawns))}
	saved := map[mapmodel.Position]bool{}

	centers := make([]mapmodel.Position, 0, len(m.Spawns))
	for c := range m.Spawns {
		centers = append(centers, c)
	}
	sort.Slice(centers, func(i, j int) bool { return positionLess(centers[i], centers[j]) })

	for _, center := range centers {
		sp := m.Spawns[center]
		se := spawnEntry{CenterX: center.X, CenterY: center.Y, CenterZ: center.Z, Radius: sp.Radius}
		for dy := -sp.Radius; dy <= sp.Radius; dy++ {
			for dx := -sp.Radius; dx <= sp.Radius; dx++ {
				pos := mapmodel.Position{X: uint16(int(center.X) + dx), Y: uint16(int(center.Y) + dy), Z: center.Z}
				tile := m.Tiles[pos]
				if tile == nil || tile.Creature == nil || saved[pos] {
					continue
				}
				saved[pos] = true
				ce := creatureElem{
					Name:      tile.Creature.Name,
					X:         dx,
					Y:         dy,
					SpawnTime: tile.Creature.SpawnTime,
					Direction: int(tile.Creature.Direction),
				}
				if tile.Creature.IsNPC {
					se.NPCs = append(se.NPCs, ce)
				} else {
					se.Monsters = append(se.Monsters, ce)
				}
			}
		}
		doc.Spawns = append(doc.Spawns, se)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	out = append([]byte(xml.Header), out...)
	return os.WriteFile(path, out, 0644)
}

func positionLess(a, b mapmodel.Position) bool {
	if a.Z != b.Z {
		return a.Z < b.Z
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
