// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package attrs

// NodeType is the 1-byte type tag that opens every framed node (spec
// §4.1, §4.4). TOWN and WAYPOINT aren't given explicit values in the
// distilled spec (only their container nodes TOWNS=12 and
// WAYPOINTS=15 are) — these follow the adjacent numbering of the
// container nodes, see DESIGN.md.
type NodeType uint8

const (
	NodeRoot      NodeType = 0
	NodeMapData   NodeType = 2
	NodeItem      NodeType = 3
	NodeTileArea  NodeType = 4
	NodeTile      NodeType = 5
	NodeTowns     NodeType = 12
	NodeTown      NodeType = 13
	NodeHouseTile NodeType = 14
	NodeWaypoints NodeType = 15
	NodeWaypoint  NodeType = 16
)
