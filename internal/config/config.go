// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"reflect"

	"github.com/playbymail/ottomap/cerrs"
)

// Config carries the environment defaults an otbmctl invocation needs
// when its own flags don't override them.
type Config struct {
	AllowConfig bool         `json:"AllowConfig,omitempty"`
	DebugFlags  DebugFlags_t `json:"DebugFlags"`
	OTBM        OTBM_t       `json:"OTBM"`
}

// OTBM_t holds the environment defaults for the map codec: the catalog
// version the application was built against, and the save/load
// behaviors that spec.md §6 leaves to the caller rather than the file
// itself.
type OTBM_t struct {
	CatalogMajor     uint32 `json:"CatalogMajor,omitempty"`
	CatalogMinor     uint32 `json:"CatalogMinor,omitempty"`
	DefaultSpawnTime int    `json:"DefaultSpawnTime,omitempty"`
	MaxSpawnRadius   int    `json:"MaxSpawnRadius,omitempty"`
	SaveWithOTBMagic bool   `json:"SaveWithOTBMagic,omitempty"`
}

type DebugFlags_t struct {
	LogFile bool `json:"LogFile,omitempty"`
	LogTime bool `json:"LogTime,omitempty"`
	Nodes   bool `json:"Nodes,omitempty"` // dump node-stream framing while decoding
}

const (
	ErrIsDirectory = cerrs.Error("is directory")
	ErrIsNotAFile  = cerrs.Error("is not a file")
)

func Default() *Config {
	return &Config{
		OTBM: OTBM_t{
			CatalogMajor:     3,
			CatalogMinor:     1100,
			DefaultSpawnTime: 60,
			MaxSpawnRadius:   30,
			SaveWithOTBMagic: true,
		},
	}
}

func Load(name string, debug bool) (*Config, error) {
	if debug {
		log.Printf("[config] %q: loading configuration...\n", name)
	}
	// create a config with default values for the application
	cfg := Default()
	if sb, err := os.Stat(name); errors.Is(err, os.ErrNotExist) || os.IsNotExist(err) {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if sb.Mode().IsDir() {
		return cfg, ErrIsDirectory
	} else if !sb.Mode().IsRegular() {
		return cfg, ErrIsNotAFile
	}

	var tmp Config
	if data, err := os.ReadFile(name); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if err = json.Unmarshal(data, &tmp); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if debug {
		if nice, err := json.MarshalIndent(tmp, "", "  "); err == nil {
			log.Printf("[config] %s\n", nice)
		} else {
			log.Printf("[config] %q: loaded %s\n", name, string(data))
		}
	}

	// copy over every value from tmp to config that isn't the default (zero) value
	copyNonZeroFields(&tmp, cfg)

	return cfg, nil
}

// copyNonZeroFields recursively copies non-zero fields from src to dst using reflection
func copyNonZeroFields(src, dst interface{}) {
	srcVal := reflect.ValueOf(src)
	dstVal := reflect.ValueOf(dst)

	// Dereference pointers
	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	if dstVal.Kind() == reflect.Ptr {
		dstVal = dstVal.Elem()
	}

	// Only work with structs
	if srcVal.Kind() != reflect.Struct || dstVal.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < srcVal.NumField(); i++ {
		srcField := srcVal.Field(i)
		dstField := dstVal.Field(i)

		// Skip unexported fields
		if !srcField.CanInterface() || !dstField.CanSet() {
			continue
		}

		// Check if source field is zero value
		if srcField.IsZero() {
			continue
		}

		// Handle different field types
		switch srcField.Kind() {
		case reflect.Struct:
			// Recursively copy struct fields
			copyNonZeroFields(srcField.Interface(), dstField.Addr().Interface())
		default:
			// Copy primitive types and other values
			dstField.Set(srcField)
		}
	}
}
