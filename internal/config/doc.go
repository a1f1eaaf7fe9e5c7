// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package config loads otbmctl's JSON configuration: the catalog version
// the binary was built against and the codec's environment defaults
// (DefaultSpawnTime, MaxSpawnRadius, SaveWithOTBMagic). Configuration is
// loaded from a JSON file with sensible defaults, overridden field by
// field by whatever the file actually sets.
package config
