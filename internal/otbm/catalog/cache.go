// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package catalog

import (
	"database/sql"
	"fmt"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS item_types (
	id                   INTEGER PRIMARY KEY,
	stackable            INTEGER NOT NULL,
	is_splash            INTEGER NOT NULL,
	is_fluid_container   INTEGER NOT NULL,
	category             INTEGER NOT NULL,
	minor_version_gate   INTEGER NOT NULL,
	is_meta_item         INTEGER NOT NULL,
	has_border_equivalent INTEGER NOT NULL,
	ground_equivalent_id INTEGER NOT NULL
);
`

// Cache memoizes ItemType lookups against a live ItemTypeCatalog: an
// in-process LRU in front of a local sqlite file, so a CLI run can
// validate or convert a map without a reachable catalog service after
// the first successful query for each id.
type Cache struct {
	upstream ItemTypeCatalog
	lru      *lru.Cache[uint16, *ItemType]
	db       *sql.DB
}

// NewCache opens (or creates) the sqlite cache file at path and wraps
// upstream. lruSize bounds the in-memory hot set; 0 selects a default
// of 4096 entries.
func NewCache(path string, upstream ItemTypeCatalog, lruSize int) (*Cache, error) {
	if lruSize <= 0 {
		lruSize = 4096
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}
	l, err := lru.New[uint16, *ItemType](lruSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{upstream: upstream, lru: l, db: db}, nil
}

// ItemType implements ItemTypeCatalog, checking the LRU, then the
// sqlite cache, then finally the upstream catalog.
func (c *Cache) ItemType(id uint16) *ItemType {
	if it, ok := c.lru.Get(id); ok {
		return it
	}
	if it := c.fromDB(id); it != nil {
		c.lru.Add(id, it)
		return it
	}
	it := c.upstream.ItemType(id)
	if it == nil {
		return nil
	}
	if err := c.toDB(it); err != nil {
		log.Printf("catalog: cache: %d: %v\n", id, err)
	}
	c.lru.Add(id, it)
	return it
}

func (c *Cache) fromDB(id uint16) *ItemType {
	row := c.db.QueryRow(`SELECT stackable, is_splash, is_fluid_container, category,
		minor_version_gate, is_meta_item, has_border_equivalent, ground_equivalent_id
		FROM item_types WHERE id = ?`, id)
	var stackable, isSplash, isFluidContainer, category, isMetaItem, hasBorderEquivalent int64
	var it ItemType
	it.ID = id
	if err := row.Scan(&stackable, &isSplash, &isFluidContainer, &category,
		&it.MinorVersionGate, &isMetaItem, &hasBorderEquivalent, &it.GroundEquivalentID); err != nil {
		return nil
	}
	it.Stackable, it.IsSplash, it.IsFluidContainer = stackable != 0, isSplash != 0, isFluidContainer != 0
	it.Category, it.IsMetaItem, it.HasBorderEquivalent = ItemCategory(category), isMetaItem != 0, hasBorderEquivalent != 0
	return &it
}

func (c *Cache) toDB(it *ItemType) error {
	toInt := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	_, err := c.db.Exec(`INSERT OR REPLACE INTO item_types
		(id, stackable, is_splash, is_fluid_container, category, minor_version_gate,
		 is_meta_item, has_border_equivalent, ground_equivalent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, toInt(it.Stackable), toInt(it.IsSplash), toInt(it.IsFluidContainer), int(it.Category),
		it.MinorVersionGate, toInt(it.IsMetaItem), toInt(it.HasBorderEquivalent), it.GroundEquivalentID)
	return err
}

// Close releases the underlying sqlite handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
