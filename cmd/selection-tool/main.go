package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	selectionengine "github.com/menta2k/selection-engine"
	"github.com/menta2k/selection-engine/internal/config"
	"github.com/menta2k/selection-engine/internal/utils"
	"github.com/menta2k/selection-engine/pkg/imageio"
	"github.com/menta2k/selection-engine/pkg/pixel"
	"github.com/menta2k/selection-engine/pkg/refine"
	"github.com/menta2k/selection-engine/pkg/region"
	"github.com/menta2k/selection-engine/pkg/selection"
)

func main() {
	var in, outDir, op, mode, hexColor, cfgPath string
	var x, y, radius, fuzz float64
	var maxSize int
	var invert, extract bool

	var refineRadius, smooth, feather, contrast, shift float64
	var useRefine bool

	flag.StringVar(&in, "in", "", "input image path or URL (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "out", "output directory")
	flag.StringVar(&op, "op", "subject", "operation: subject|quick|colorrange|alpha|edge")
	flag.StringVar(&cfgPath, "config", "", "optional JSON config file")

	flag.Float64Var(&x, "x", 0, "seed x coordinate (quick)")
	flag.Float64Var(&y, "y", 0, "seed y coordinate (quick)")
	flag.Float64Var(&radius, "radius", 10, "brush radius (quick)")
	flag.StringVar(&mode, "mode", "new", "selection mode for quick: new|add|subtract")

	flag.StringVar(&hexColor, "color", "ffffff", "target color for colorrange, hex RRGGBB")
	flag.Float64Var(&fuzz, "fuzz", 60, "fuzziness for colorrange (0-200)")

	flag.BoolVar(&useRefine, "refine", false, "run the refine-edge pipeline on the result")
	flag.Float64Var(&refineRadius, "refine-radius", -1, "refine: edge detection radius (px)")
	flag.Float64Var(&smooth, "smooth", -1, "refine: smoothing (0-100)")
	flag.Float64Var(&feather, "feather", -1, "refine: feather radius (px)")
	flag.Float64Var(&contrast, "contrast", -1, "refine: contrast (0-100)")
	flag.Float64Var(&shift, "shift", 0, "refine: edge shift (-100..100)")

	flag.BoolVar(&invert, "invert", false, "invert the resulting selection")
	flag.BoolVar(&extract, "extract", false, "also write the masked cutout cropped to bounds")
	flag.IntVar(&maxSize, "maxsize", 0, "downscale long side to this many px before processing, 0=original")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.png|URL [-op subject|quick|colorrange|alpha|edge] [-refine] [-out outdir]", filepath.Base(os.Args[0]))
	}
	if !strings.HasPrefix(in, "http://") && !strings.HasPrefix(in, "https://") && !utils.FileExists(in) {
		log.Fatalf("Input file not found: %s", in)
	}

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if err := loaded.Validate(); err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
		cfg = loaded
	}
	if refineRadius < 0 {
		refineRadius = cfg.Refine.Radius
	}
	if smooth < 0 {
		smooth = cfg.Refine.Smooth
	}
	if feather < 0 {
		feather = cfg.Refine.Feather
	}
	if contrast < 0 {
		contrast = cfg.Refine.Contrast
	}

	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	files := imageio.NewWithConfig(imageio.Config{
		Quality:  cfg.Output.Quality,
		Lossless: cfg.Output.Lossless,
	})

	img, err := files.LoadSmart(in)
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}
	if maxSize > 0 && (img.Width > maxSize || img.Height > maxSize) {
		resized := imaging.Fit(pixel.ToImage(img), maxSize, maxSize, imaging.Lanczos)
		img = pixel.FromImage(resized)
		log.Printf("Resized input to %dx%d", img.Width, img.Height)
	}

	engine := selectionengine.New()

	if op == "edge" {
		edges := engine.ComputeEdgeMap(img)
		mask := pixel.NewBuffer(edges.Width, edges.Height)
		for py := 0; py < edges.Height; py++ {
			for px := 0; px < edges.Width; px++ {
				mask.SetOpaque(px, py, uint8(edges.At(px, py)*255+0.5))
			}
		}
		outPath := utils.GenerateOutputFilename(in, outDir, cfg.Output.Prefix, "_edges", cfg.Output.Format)
		if err := files.Save(mask, outPath); err != nil {
			log.Fatalf("Failed to save edge map: %v", err)
		}
		log.Printf("Wrote %s", outPath)
		return
	}

	var sel selection.Selection
	switch op {
	case "subject":
		subject := region.NewSubjectSelectorWithConfig(region.SubjectConfig{
			EdgeWeight:       cfg.Subject.EdgeWeight,
			CenterWeight:     cfg.Subject.CenterWeight,
			SaturationWeight: cfg.Subject.SaturationWeight,
			SeedThreshold:    cfg.Subject.SeedThreshold,
			MinRegionSize:    cfg.Subject.MinRegionSize,
			CloseRadius:      cfg.Subject.CloseRadius,
		})
		sel = subject.Select(img)
	case "quick":
		sel = engine.QuickSelect(img, x, y, radius, selection.Mode(mode), nil)
	case "colorrange":
		target, err := parseHexColor(hexColor)
		if err != nil {
			log.Fatalf("Invalid -color: %v", err)
		}
		sel = engine.SelectColorRange(img, target, fuzz)
	case "alpha":
		sel = engine.SelectionFromAlpha(img)
	default:
		log.Fatalf("Unknown operation: %s", op)
	}

	if useRefine {
		sel = engine.RefineEdge(sel, img, refine.Options{
			Radius:   refineRadius,
			Smooth:   smooth,
			Feather:  feather,
			Contrast: contrast,
			Shift:    shift,
		})
	}
	if invert {
		sel = engine.InvertSelection(sel)
	}

	log.Printf("Selection bounds: x=%d y=%d w=%d h=%d",
		sel.Bounds.X, sel.Bounds.Y, sel.Bounds.Width, sel.Bounds.Height)

	outPath := utils.GenerateOutputFilename(in, outDir, cfg.Output.Prefix, cfg.Output.Suffix, cfg.Output.Format)
	if err := files.Save(sel.Mask, outPath); err != nil {
		log.Fatalf("Failed to save mask: %v", err)
	}
	log.Printf("Wrote %s", outPath)

	if extract {
		cut := imageio.Extract(img, sel)
		if cut == nil {
			log.Printf("Selection is empty, nothing to extract")
			return
		}
		cutPath := utils.GenerateOutputFilename(in, outDir, cfg.Output.Prefix, "_cut", "png")
		if err := imaging.Save(cut, cutPath); err != nil {
			log.Fatalf("Failed to save cutout: %v", err)
		}
		log.Printf("Wrote %s", cutPath)
	}
}

// parseHexColor parses RRGGBB or #RRGGBB into an opaque color.
func parseHexColor(s string) (pixel.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return pixel.RGBA{}, fmt.Errorf("want 6 hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return pixel.RGBA{}, err
	}
	return pixel.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
