// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package main implements the otbmctl CLI: inspect, validate, and
// convert OTBM map files and their sidecars (spec.md §2.1, §6).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/maloquacious/semver"
	"github.com/playbymail/ottomap/internal/config"
	"github.com/playbymail/ottomap/internal/otbm"
	"github.com/spf13/cobra"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
	logger *slog.Logger
	cfg    *config.Config
)

func main() {
	var logLevel string
	var debug, quiet, logSource bool

	cmdRoot := &cobra.Command{
		Use:           "otbmctl",
		Short:         "inspect, validate, and convert OTBM maps",
		Long:          `otbmctl reads and writes OTBM node-stream maps and their houses, spawns, and zones sidecars.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug && quiet {
				return fmt.Errorf("--debug and --quiet are mutually exclusive")
			}
			var lvl slog.Level
			switch {
			case debug:
				lvl = slog.LevelDebug
			case quiet:
				lvl = slog.LevelError
			default:
				switch strings.ToLower(logLevel) {
				case "debug":
					lvl = slog.LevelDebug
				case "info":
					lvl = slog.LevelInfo
				case "warn", "warning":
					lvl = slog.LevelWarn
				case "error":
					lvl = slog.LevelError
				default:
					return fmt.Errorf("log-level: unknown value %q", logLevel)
				}
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     lvl,
				AddSource: logSource || lvl == slog.LevelDebug,
			})
			logger = slog.New(handler)
			slog.SetDefault(logger)

			loaded, err := config.Load("otbmctl.json", debug)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	cmdRoot.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (same as --log-level=debug)")
	cmdRoot.PersistentFlags().BoolVar(&quiet, "quiet", false, "only log errors (same as --log-level=error)")
	cmdRoot.PersistentFlags().StringVar(&logLevel, "log-level", "error", "logging level (debug|info|warn|error)")
	cmdRoot.PersistentFlags().BoolVar(&logSource, "log-source", false, "add file and line numbers to log messages")

	cmdRoot.AddCommand(cmdVersion, cmdInfo, cmdValidate, cmdConvert)

	if err := cmdRoot.Execute(); err != nil {
		if logger != nil {
			logger.Error("otbmctl", "error", err)
		} else {
			fmt.Fprintf(os.Stderr, "otbmctl: %v\n", err)
		}
		os.Exit(1)
	}
}

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "print the version number of this application",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", version.String())
	},
}

var cmdInfo = &cobra.Command{
	Use:   "info <path>",
	Short: "print the root header version fields of a map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		started := time.Now()
		mv, err := otbm.GetVersionInfo(path)
		if err != nil {
			return fmt.Errorf("info: %s: %w", path, err)
		}
		sb, err := os.Stat(path)
		if err != nil {
			return err
		}
		fmt.Printf("path:            %s\n", path)
		fmt.Printf("size:            %s\n", humanize.Bytes(uint64(sb.Size())))
		fmt.Printf("otbm version:    %d\n", mv.OTBM)
		fmt.Printf("items major:     %d\n", mv.Major)
		fmt.Printf("items minor:     %d\n", mv.Client)
		logger.Debug("info", "elapsed", time.Since(started))
		return nil
	},
}

var cmdValidate = &cobra.Command{
	Use:   "validate <path>",
	Short: "load a map and its sidecars, reporting every warning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		started := time.Now()
		m, warnings, err := otbm.LoadMap(path, loadOptions())
		if err != nil {
			return fmt.Errorf("validate: %s: %w", path, err)
		}
		fmt.Printf("ok: %s (%d tiles, %d houses, %d spawns) in %s\n",
			path, len(m.Tiles), len(m.Houses), len(m.Spawns), time.Since(started))
		for _, w := range warnings {
			fmt.Printf("warning: %s\n", w)
		}
		if len(warnings) > 0 {
			logger.Warn("validate", "path", path, "warnings", len(warnings))
		}
		return nil
	},
}

var cmdConvert = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "load a map at <in> and save it at <out>, converting on extension",
	Long:  `convert loads <in> (.otbm or .otgz) and writes <out>; the output extension selects flat or archived packaging.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]
		started := time.Now()
		m, warnings, err := otbm.LoadMap(in, loadOptions())
		if err != nil {
			return fmt.Errorf("convert: load %s: %w", in, err)
		}
		for _, w := range warnings {
			logger.Warn("convert", "path", in, "warning", w)
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return err
		}
		if err := otbm.SaveMap(m, out, saveOptions()); err != nil {
			return fmt.Errorf("convert: save %s: %w", out, err)
		}
		fmt.Printf("converted %s -> %s in %s\n", in, out, time.Since(started))
		return nil
	},
}

// loadOptions builds an otbm.Options from config, letting
// DEFAULT_SPAWNTIME and MAX_SPAWN_RADIUS environment variables
// override the config file for one-off CLI invocations.
func loadOptions() otbm.Options {
	opts := otbm.Options{
		CatalogMajor:     cfg.OTBM.CatalogMajor,
		CatalogMinor:     cfg.OTBM.CatalogMinor,
		DefaultSpawnTime: cfg.OTBM.DefaultSpawnTime,
		MaxSpawnRadius:   cfg.OTBM.MaxSpawnRadius,
	}
	if v, ok := envInt("DEFAULT_SPAWNTIME"); ok {
		opts.DefaultSpawnTime = v
	}
	if v, ok := envInt("MAX_SPAWN_RADIUS"); ok {
		opts.MaxSpawnRadius = v
	}
	return opts
}

func saveOptions() otbm.Options {
	opts := loadOptions()
	opts.SaveWithOTBMagic = cfg.OTBM.SaveWithOTBMagic
	if v := os.Getenv("SAVE_WITH_OTB_MAGIC_NUMBER"); v != "" {
		opts.SaveWithOTBMagic = v == "1" || strings.EqualFold(v, "true")
	}
	return opts
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
