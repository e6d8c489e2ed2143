// lwotool inspects LightWave Object files.
package main

import (
	"context"
	"fmt"
	"maps"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/lwostrut/internal/batch"
	"github.com/Faultbox/lwostrut/internal/config"
	"github.com/Faultbox/lwostrut/internal/logger"
	"github.com/Faultbox/lwostrut/pkg/lwo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	commands := map[string]func(cfg *config.Config, args []string) error{
		"info":     cmdInfo,
		"layers":   cmdLayers,
		"surfaces": cmdSurfaces,
		"clips":    cmdClips,
		"dump":     cmdDump,
		"batch":    cmdBatch,
		"config":   cmdConfig,
	}
	run, ok := commands[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err := config.ParseFlags(os.Args[2:]); err != nil {
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, config.Args()); err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`lwotool - LightWave Object inspector

Usage:
  lwotool <command> [options] <file.lwo>...

Commands:
  info <file.lwo>        Show format and content counts
  layers <file.lwo>      List layers with point and polygon counts
  surfaces <file.lwo>    List surfaces and their texture channels
  clips <file.lwo>       Resolve clip images on disk
  dump <file.lwo>        Print the parsed object as YAML
  batch <file.lwo>...    Parse many files and write a YAML manifest
  config [save]          Print the effective config, or save it as the user default

Options:
  -config path      Config file (else $LWOTOOL_CONFIG, ./lwotool.yaml, user config dir)
  -debug            Debug logging
  -log-file path    Also log to a rotated file
  -hidden           Include hidden layers
  -strict           Fail when a chunk is not fully consumed
  -charset name     Encoding of stored strings
  -search a,b       Image search paths ("dirpath" is the object's directory)
  -allow-missing    Do not fail on missing images
  -relative         Report image paths relative to the object's directory
  -probe            Read image headers
  -workers n        Batch workers
  -timeout d        Batch per-file timeout

Examples:
  lwotool info ship.lwo
  lwotool clips -search dirpath/../images,dirpath/textures ship.lwo
  lwotool batch -workers 8 -timeout 10s models/*.lwo`)
}

// load parses the single file named by args.
func load(cfg *config.Config, args []string) (*lwo.Object, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one file, got %d", len(args))
	}
	opts, err := cfg.ParserOptions(logger.Named("lwo"))
	if err != nil {
		return nil, err
	}
	return lwo.ParseFile(args[0], opts...)
}

func cmdInfo(cfg *config.Config, args []string) error {
	obj, err := load(cfg, args)
	if err != nil {
		return err
	}
	info, err := os.Stat(obj.SourcePath)
	if err != nil {
		return err
	}
	s := obj.Stats()

	fmt.Printf("File:     %s\n", obj.SourcePath)
	fmt.Printf("Size:     %s\n", humanize.Bytes(uint64(info.Size())))
	fmt.Printf("Format:   %s\n", obj.Format)
	fmt.Printf("Layers:   %d (%d hidden)\n", s.Layers, s.HiddenLayers)
	fmt.Printf("Points:   %s\n", humanize.Comma(int64(s.Points)))
	fmt.Printf("Polygons: %s\n", humanize.Comma(int64(s.Polygons)))
	fmt.Printf("Surfaces: %d\n", s.Surfaces)
	fmt.Printf("Textures: %d\n", s.Textures)
	fmt.Printf("Clips:    %d\n", s.Clips)
	if s.Nodes > 0 {
		fmt.Printf("Nodes:    %d\n", s.Nodes)
	}
	if b := obj.Bounds(cfg.Import.LoadHidden); !b.IsEmpty() {
		size, center := b.Size(), b.Center()
		fmt.Printf("Extent:   %g x %g x %g (center %g, %g, %g)\n",
			size.X, size.Y, size.Z, center.X, center.Y, center.Z)
	}
	return nil
}

func cmdLayers(cfg *config.Config, args []string) error {
	obj, err := load(cfg, args)
	if err != nil {
		return err
	}
	fmt.Printf("%-5s %-6s %-24s %10s %10s  %s\n", "INDEX", "PARENT", "NAME", "POINTS", "POLYGONS", "FLAGS")
	for _, l := range obj.ActiveLayers(cfg.Import.LoadHidden) {
		var flags []string
		if l.Hidden {
			flags = append(flags, "hidden")
		}
		if l.HasSubdivision {
			flags = append(flags, "subdiv")
		}
		if len(l.UVMaps) > 0 {
			flags = append(flags, fmt.Sprintf("uv:%d", len(l.UVMaps)))
		}
		if len(l.Morphs) > 0 {
			flags = append(flags, fmt.Sprintf("morph:%d", len(l.Morphs)))
		}
		parent := "-"
		if l.ParentIndex >= 0 {
			parent = fmt.Sprint(l.ParentIndex)
		}
		fmt.Printf("%-5d %-6s %-24s %10s %10s  %s\n",
			l.Index, parent, l.Name,
			humanize.Comma(int64(len(l.Points))),
			humanize.Comma(int64(len(l.Polygons))),
			strings.Join(flags, ","))
	}
	return nil
}

func cmdSurfaces(cfg *config.Config, args []string) error {
	obj, err := load(cfg, args)
	if err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(obj.Surfaces)) {
		s := obj.Surfaces[name]
		fmt.Printf("%s\n", s.Name)
		fmt.Printf("  color %.3f %.3f %.3f  diffuse %.3f  specular %.3f\n",
			s.Color[0], s.Color[1], s.Color[2], s.Diffuse, s.Specular)
		if s.Smooth {
			fmt.Printf("  smoothing %.1f°\n", float64(s.SmoothingAngle)*180/math.Pi)
		}
		for _, ch := range slices.Sorted(maps.Keys(s.Textures)) {
			for _, t := range s.Textures[ch] {
				fmt.Printf("  %s %s clip=%d uv=%s\n", ch, t.Type, t.ClipID, t.UVName)
			}
		}
		if len(s.Nodes) > 0 {
			fmt.Printf("  node graphs: %d\n", len(s.Nodes))
		}
	}
	return nil
}

func cmdClips(cfg *config.Config, args []string) error {
	obj, err := load(cfg, args)
	if err != nil {
		return err
	}
	res, err := cfg.Resolver(logger.Named("clips")).Validate(obj)
	if err != nil {
		return err
	}
	for _, id := range slices.Sorted(maps.Keys(obj.Clips)) {
		c := obj.Clips[id]
		status := c.ResolvedPath
		if c.Missing {
			status = "(missing)"
		}
		line := fmt.Sprintf("%4d  %-40s %s", id, c.Path, status)
		if c.Image != nil {
			line += fmt.Sprintf("  %s %dx%d", c.Image.Format, c.Image.Width, c.Image.Height)
		}
		fmt.Println(line)
	}
	fmt.Printf("%d images found, %d missing\n", len(res.Images), len(res.Missing))
	return nil
}

func cmdDump(cfg *config.Config, args []string) error {
	obj, err := load(cfg, args)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(obj); err != nil {
		return err
	}
	return enc.Close()
}

func cmdBatch(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no files given")
	}
	var paths []string
	for _, a := range args {
		matches, err := filepath.Glob(a)
		if err != nil || len(matches) == 0 {
			paths = append(paths, a)
			continue
		}
		paths = append(paths, matches...)
	}

	opts, err := cfg.ParserOptions(logger.Named("lwo"))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now()
	results := batch.Run(ctx, batch.Config{
		Workers:  cfg.Batch.Workers,
		Timeout:  cfg.Batch.Timeout,
		Options:  opts,
		Resolver: cfg.Resolver(logger.Named("clips")),
		Logger:   logger.Named("batch"),
	}, paths)

	m := batch.NewManifest(started, results)
	if err := batch.WriteManifest(cfg.Batch.Manifest, m); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	var total int64
	for _, r := range results {
		total += r.Size
	}
	elapsed := time.Since(started)
	logger.Info("batch complete",
		zap.String("run", m.RunID),
		zap.Int("files", m.Files),
		zap.Int("failed", m.Failed),
		zap.String("read", humanize.Bytes(uint64(total))),
		zap.String("rate", humanize.Bytes(uint64(float64(total)/elapsed.Seconds()))+"/s"),
		zap.String("manifest", cfg.Batch.Manifest))
	if m.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", m.Failed, m.Files)
	}
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	switch {
	case len(args) == 0:
		if cfg.Source != "" {
			fmt.Printf("# loaded from %s\n", cfg.Source)
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case len(args) == 1 && args[0] == "save":
		path, err := cfg.Save()
		if err != nil {
			return err
		}
		fmt.Printf("Saved config to %s\n", path)
		return nil
	}
	return fmt.Errorf("usage: lwotool config [save]")
}
