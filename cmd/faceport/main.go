package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/faceport/faceport"
	"github.com/faceport/faceport/internal/config"
	"github.com/faceport/faceport/internal/utils"
	"github.com/faceport/faceport/pkg/client"
	"github.com/faceport/faceport/pkg/detect"
	"github.com/faceport/faceport/pkg/export"
	"github.com/faceport/faceport/pkg/llamacpp"
	"github.com/faceport/faceport/pkg/ollama"
	"github.com/faceport/faceport/pkg/processing"
	"github.com/faceport/faceport/pkg/selector"
)

func main() {
	var in, outDir, cfgPath string
	var backend, url, model, cascadePath string
	var conf float64
	var margin, maxFaces int
	var mode string
	var ext string
	var quality int
	var lossless bool
	var probe, debug bool
	var dbgext string

	flag.StringVar(&in, "in", "", "input image path or URL (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "", "output directory")
	flag.StringVar(&cfgPath, "config", "", "config file path (JSON)")

	flag.StringVar(&backend, "backend", "", "detection backend: ollama, llamacpp or cascade")
	flag.StringVar(&url, "url", "", "model server URL (defaults: ollama=http://localhost:11434, llamacpp=http://localhost:8080)")
	flag.StringVar(&model, "model", "", "vision model name")
	flag.StringVar(&cascadePath, "cascade", "", "path to the binary pigo cascade file")

	flag.Float64Var(&conf, "conf", 0, "minimum detection confidence (0.1-0.99)")
	flag.IntVar(&margin, "margin", -1, "crop margin percent (0-40)")
	flag.StringVar(&mode, "mode", "", "selection mode: largest or all")
	flag.IntVar(&maxFaces, "max", 0, "max faces in 'all' mode (1-10)")

	flag.StringVar(&ext, "ext", "", "output format for crops: jpg|png|webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality for crops (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP output lossless mode for crops")

	flag.BoolVar(&probe, "probe", false, "ask the model to describe the image before detecting (model backends only)")
	flag.BoolVar(&debug, "debug", false, "write a detection overlay image")
	flag.StringVar(&dbgext, "dbgext", "png", "overlay format: png|jpg|webp")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.jpg|URL [-backend ollama|llamacpp|cascade] [-mode largest|all] [-margin 10] [-out outdir]", filepath.Base(os.Args[0]))
	}

	cfg := loadConfig(cfgPath)

	// Flags override config
	if backend != "" {
		cfg.Detection.Backend = backend
	}
	if url != "" {
		cfg.Detection.ServerURL = url
	}
	if model != "" {
		cfg.Detection.Model = model
	}
	if cascadePath != "" {
		cfg.Detection.CascadePath = cascadePath
	}
	if conf != 0 {
		cfg.Detection.MinConfidence = conf
	}
	if margin >= 0 {
		cfg.Crop.MarginPercent = margin
	}
	if mode != "" {
		cfg.Crop.Mode = mode
	}
	if maxFaces != 0 {
		cfg.Crop.MaxFaces = maxFaces
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if ext != "" {
		cfg.Output.Format = ext
	}
	if quality != 0 {
		cfg.Output.Quality = quality
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := utils.EnsureDir(cfg.Output.Dir); err != nil {
		log.Fatal(err)
	}
	if !utils.IsImageFile(in) && !isURL(in) {
		log.Printf("warning: %q does not look like an image file", in)
	}

	processor := processing.NewProcessor()

	// Backend selection happens exactly once, here. There is no
	// per-call fallback between backends.
	detector, visionClient := buildDetector(cfg)

	img, err := processor.LoadImageSmart(in)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	if probe {
		if visionClient == nil {
			log.Printf("probe skipped: cascade backend has no vision model")
		} else {
			imgB64, err := processor.PrepareImageForModel(img, cfg.Detection.SendFormat, cfg.Detection.SendMaxDim, cfg.Detection.SendQuality)
			if err != nil {
				log.Fatal(err)
			}
			answer, err := visionClient.SimpleQuery(ctx, cfg.Detection.Model, "What do you see in this image? Describe it briefly.", imgB64)
			if err != nil {
				log.Fatalf("vision probe failed: %v", err)
			}
			log.Printf("probe: %s", answer)
		}
	}

	extractor := faceport.New(detector)

	opts := faceport.Options{
		MinConfidence: cfg.Detection.MinConfidence,
		MarginPercent: cfg.Crop.MarginPercent,
		Mode:          selector.ParseMode(cfg.Crop.Mode),
		MaxFaces:      cfg.Crop.MaxFaces,
	}

	result, err := extractor.Extract(ctx, img, opts)
	if err != nil {
		log.Fatal(err)
	}

	if result.Empty() {
		log.Printf("no faces detected; try lowering -conf or using a clearer image")
		return
	}

	for i, d := range result.Detections {
		log.Printf("face %d: box=(%d,%d)-(%d,%d) area=%d score=%.2f",
			i, d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2, d.Box.Area(), d.Score)
	}

	// Individual crops
	for i, crop := range result.Crops {
		path := utils.PortraitFilename(cfg.Output.Dir, i, cfg.Output.Format)
		if err := processor.SaveImage(crop, path, cfg.Output.Format, cfg.Output.Quality, lossless); err != nil {
			log.Printf("save %s failed: %v", path, err)
		} else {
			log.Printf("wrote %s", path)
		}
	}

	// Main portrait
	mainBytes, err := result.MainPortraitJPEG(cfg.Output.Quality)
	if err != nil {
		log.Fatal(err)
	}
	mainPath := filepath.Join(cfg.Output.Dir, "portrait_main.jpg")
	if err := os.WriteFile(mainPath, mainBytes, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%s)", mainPath, utils.FormatFileSize(int64(len(mainBytes))))

	// ZIP with all portraits
	archive, err := result.Archive(cfg.Output.Quality)
	if err != nil {
		log.Fatal(err)
	}
	zipPath := filepath.Join(cfg.Output.Dir, "portraits.zip")
	if err := os.WriteFile(zipPath, archive, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%s)", zipPath, utils.FormatFileSize(int64(len(archive))))

	if debug {
		overlay := export.DrawOverlay(img, result.Boxes())
		dbgPath := filepath.Join(cfg.Output.Dir, "detections."+dbgext)
		if err := processor.SaveImage(overlay, dbgPath, dbgext, 92, false); err != nil {
			log.Printf("overlay save failed: %v", err)
		} else {
			log.Printf("wrote %s", dbgPath)
		}
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		if def := config.GetConfigPath(); fileExists(def) {
			path = def
		} else {
			return config.Default()
		}
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func buildDetector(cfg *config.Config) (detect.Detector, client.VisionClient) {
	modelCfg := detect.ModelConfig{
		Model:       cfg.Detection.Model,
		SendFormat:  cfg.Detection.SendFormat,
		SendMaxDim:  cfg.Detection.SendMaxDim,
		SendQuality: cfg.Detection.SendQuality,
	}

	switch cfg.Detection.Backend {
	case "ollama":
		serverURL := cfg.Detection.ServerURL
		if serverURL == "" {
			serverURL = "http://localhost:11434"
		}
		vc, err := ollama.NewClient(serverURL)
		if err != nil {
			log.Fatalf("failed to create ollama client: %v", err)
		}
		return detect.NewModelDetector(vc, modelCfg), vc
	case "llamacpp":
		serverURL := cfg.Detection.ServerURL
		if serverURL == "" {
			serverURL = "http://localhost:8080"
		}
		vc, err := llamacpp.NewClient(serverURL)
		if err != nil {
			log.Fatalf("failed to create llama.cpp client: %v", err)
		}
		return detect.NewModelDetector(vc, modelCfg), vc
	case "cascade":
		cascade, err := os.ReadFile(cfg.Detection.CascadePath)
		if err != nil {
			log.Fatalf("failed to read cascade file: %v", err)
		}
		detector, err := detect.NewCascadeDetector(cascade, detect.DefaultCascadeConfig())
		if err != nil {
			log.Fatalf("failed to load cascade: %v", err)
		}
		return detector, nil
	default:
		log.Fatalf("unknown backend: %s (use ollama, llamacpp or cascade)", cfg.Detection.Backend)
		return nil, nil
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
