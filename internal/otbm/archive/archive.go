// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package archive implements the .otgz packaging format (spec.md
// §4.8): a gzip-compressed tar bundling the binary map and its XML
// sidecars under world/. Zones TOMLs are not packed, per §9.
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/playbymail/ottomap/cerrs"
)

const (
	memberMap    = "world/map.otbm"
	memberHouses = "world/houses.xml"
	memberSpawns = "world/spawns.xml"
)

// Write packages mapBytes (the magic-prefixed node stream), houses.xml,
// and spawns.xml into a gzip tar at path, mode 0644 on every entry.
func Write(path string, mapBytes, housesXML, spawnsXML []byte) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	// a fresh id per write, carried as a PAX comment so two archives of
	// the same map can be told apart without inspecting contents.
	packID := uuid.NewString()

	for _, m := range []struct {
		name string
		data []byte
	}{
		{memberMap, mapBytes},
		{memberHouses, housesXML},
		{memberSpawns, spawnsXML},
	} {
		hdr := &tar.Header{
			Name: m.name, Mode: 0644, Size: int64(len(m.data)),
			PAXRecords: map[string]string{"comment": packID},
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tw.Write(m.data); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Read opens an .otgz at path and returns its three members.
func Read(path string) (mapBytes, housesXML, spawnsXML []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, nil, nil, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	members := map[string][]byte{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, err
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, nil, nil, err
		}
		members[hdr.Name] = data
	}

	mapBytes, ok := members[memberMap]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %s", cerrs.ErrUnknownArchiveMember, memberMap)
	}
	housesXML = members[memberHouses]
	spawnsXML = members[memberSpawns]
	return mapBytes, housesXML, spawnsXML, nil
}
