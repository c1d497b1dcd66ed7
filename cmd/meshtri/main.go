// meshtri loads a 3D asset, triangulates every mesh object in it and writes
// the result.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	meshtri "github.com/flywave/go-meshtri"
	"github.com/flywave/go-meshtri/internal/config"
	"github.com/flywave/go-meshtri/internal/logger"
	"go.uber.org/zap"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	input := args[0]
	output := outputPath(input, args, cfg.Output.Format)
	if err := run(log, cfg, input, output); err != nil {
		log.Error("Failed", zap.String("input", input), zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtri - triangulate the mesh objects of a 3D asset

Usage:
  meshtri [flags] <input> [output]

Inputs:  .obj .fbx .gltf .glb .dae .3ds .bin
Outputs: .mst .obj (default: <input>.tri.<format>)

Flags:
  -config <file>   YAML config file
  -quad <method>   beauty | fixed | alternate | shortest_diagonal | longest_diagonal
  -ngon <method>   beauty | clip
  -format <fmt>    mst | obj
  -log-file <file> rotating log file
  -debug           debug logging`)
}

func outputPath(input string, args []string, format string) string {
	if len(args) > 1 {
		return args[1]
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".tri." + format
}

func run(log *zap.Logger, cfg *config.Config, input, output string) error {
	ld, err := meshtri.LoaderForPath(input)
	if err != nil {
		return err
	}
	scene, err := ld.Load(input)
	if err != nil {
		return err
	}
	log.Info("Loaded", zap.String("scene", scene.Name), zap.Int("objects", len(scene.Objects)))

	tr := meshtri.NewTriangulator(cfg.Triangulate, log)
	st, err := tr.ProcessScene(scene)
	if err != nil {
		return err
	}

	if err := meshtri.WriteFile(output, cfg.Output.Format, scene); err != nil {
		return err
	}
	log.Info("Done",
		zap.String("output", output),
		zap.Int("meshes", st.Meshes),
		zap.Int("skipped", st.Skipped),
		zap.Int("faces_in", st.FacesIn),
		zap.Int("triangles_out", st.TrianglesOut))
	return nil
}
