package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/loaders"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

const scenesDir = "scenes"

// renderOverrides holds command line values that replace the scene's
// render settings. Zero leaves the scene value alone, except for depth and
// seed where zero is meaningful and a negative value does.
type renderOverrides struct {
	width   int
	height  int
	samples int
	depth   int
	workers int
	seed    int64
}

func main() {
	sceneName := flag.String("scene", "default", "Built-in scene name, scene file name in scenes/, or path to a .toml file")
	output := flag.String("out", "", "Output image path (.png or .jpg); defaults to output/<scene>/render_<timestamp>.png")
	overrides := renderOverrides{}
	flag.IntVar(&overrides.width, "width", 0, "Image width (0 = scene setting)")
	flag.IntVar(&overrides.height, "height", 0, "Image height (0 = scene setting)")
	flag.IntVar(&overrides.samples, "samples", 0, "Samples per pixel (0 = scene setting)")
	flag.IntVar(&overrides.depth, "depth", -1, "Maximum bounce depth (-1 = scene setting)")
	flag.IntVar(&overrides.workers, "workers", 0, "Number of parallel workers (0 = scene setting)")
	flag.Int64Var(&overrides.seed, "seed", -1, "Random seed (-1 = scene setting)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if err := run(*sceneName, *output, overrides); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(sceneName, output string, overrides renderOverrides) error {
	logger := core.NewDefaultLogger()

	s, err := createScene(sceneName)
	if err != nil {
		return err
	}
	if err := applyOverrides(s, overrides); err != nil {
		return err
	}

	rt, err := renderer.NewRaytracer(s, integrator.NewPathTracingIntegrator(), logger)
	if err != nil {
		return err
	}

	img, stats, err := rt.Render(context.Background())
	if err != nil {
		return err
	}
	logger.Printf("Rendered %d pixels with %d samples, average luminance %.1f\n",
		stats.TotalPixels, stats.TotalSamples, renderer.CalculateAverageLuminance(img))

	if output == "" {
		output = defaultOutputPath(sceneName, time.Now())
	}
	if err := loaders.SaveImage(output, img); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", output)
	return nil
}

// createScene resolves a scene argument. Built-in names win, then explicit
// .toml paths, then files in the scenes directory.
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, errors.New("scene name must not be empty")
	}

	if s, ok := scene.ByName(name); ok {
		return s, nil
	}

	if strings.HasSuffix(name, ".toml") {
		return loaders.LoadScene(name)
	}

	path := filepath.Join(scenesDir, name+".toml")
	if _, err := os.Stat(path); err == nil {
		return loaders.LoadScene(path)
	}

	return nil, fmt.Errorf("unknown scene %q (try -help for a list)", name)
}

// applyOverrides copies the command line settings into s and rebuilds its
// camera for the final image size
func applyOverrides(s *scene.Scene, o renderOverrides) error {
	cfg := &s.SamplingConfig
	if o.width > 0 {
		cfg.Width = o.width
	}
	if o.height > 0 {
		cfg.Height = o.height
	}
	if o.samples > 0 {
		cfg.SamplesPerPixel = o.samples
	}
	if o.depth >= 0 {
		cfg.MaxDepth = o.depth
	}
	if o.workers > 0 {
		cfg.NumWorkers = o.workers
	}
	if o.seed >= 0 {
		cfg.Seed = uint64(o.seed)
	}
	return s.Preprocess()
}

func defaultOutputPath(sceneName string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", base, fmt.Sprintf("render_%s.png", timestamp))
}

func showHelp() {
	fmt.Println("Stochastic Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Printf("  %-12s %s\n", info.ID, info.Description)
	}

	files, err := scene.ListSceneFiles(scenesDir)
	if err != nil {
		fmt.Printf("Failed to list scene files: %v\n", err)
		return
	}
	if len(files) > 0 {
		fmt.Println()
		fmt.Println("Scene files:")
		for _, info := range files {
			name := strings.TrimPrefix(info.ID, "toml:")
			fmt.Printf("  %-12s %s\n", name, info.Description)
		}
	}
}
