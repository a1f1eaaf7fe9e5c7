// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package archive_test

import (
	"path/filepath"
	"testing"

	"github.com/playbymail/ottomap/internal/otbm/archive"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.otgz")
	mapBytes := []byte("OTBMfake-node-stream")
	housesXML := []byte("<houses/>")
	spawnsXML := []byte("<spawns/>")

	if err := archive.Write(path, mapBytes, housesXML, spawnsXML); err != nil {
		t.Fatalf("write: %v", err)
	}

	gotMap, gotHouses, gotSpawns, err := archive.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(gotMap) != string(mapBytes) {
		t.Fatalf("map bytes = %q, want %q", gotMap, mapBytes)
	}
	if string(gotHouses) != string(housesXML) {
		t.Fatalf("houses xml = %q, want %q", gotHouses, housesXML)
	}
	if string(gotSpawns) != string(spawnsXML) {
		t.Fatalf("spawns xml = %q, want %q", gotSpawns, spawnsXML)
	}
}
