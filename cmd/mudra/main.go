package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/publish"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Hand Gesture Recognition")

	configPath := flag.String("config", config.DefaultPath(), "path to the configuration file")
	headless := flag.Bool("headless", false, "run without the system tray")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	shapeLabels := loadLabels(st, store.LabelKindShape, cfg.Models.ShapeLabels, gesture.DefaultShapeLabels)
	motionLabels := loadLabels(st, store.LabelKindMotion, cfg.Models.MotionLabels, gesture.DefaultMotionLabels)

	recognizer, err := gesture.New(gesture.Config{
		Shape:        loadShapeClassifier(cfg.Models.ShapeWeights),
		Motion:       loadMotionClassifier(cfg.Models.MotionWeights),
		ShapeLabels:  gesture.NewLabelSet(shapeLabels),
		MotionLabels: gesture.NewLabelSet(motionLabels),
	})
	if err != nil {
		log.Fatalf("Failed to create recognizer: %v", err)
	}

	publisher := publish.NewPublisher(cfg.Redis)
	defer publisher.Close()

	hub := server.NewResultsHub()

	application := app.New(app.Config{
		Store:           st,
		Recognizer:      recognizer,
		Publisher:       publisher,
		Broadcaster:     hub,
		CameraID:        cfg.Camera.DeviceID,
		MotionThresh:    cfg.Camera.MotionThresh,
		PluginDir:       cfg.Plugins.Dir,
		PluginTimeoutMs: cfg.Plugins.TimeoutMs,
		DetectorConfig: detector.Config{
			MaxHands:        cfg.Detector.MaxHands,
			MinConfidence:   cfg.Detector.MinConfidence,
			MinTrackingConf: cfg.Detector.MinTrackingConf,
			StaticImageMode: cfg.Detector.StaticImageMode,
		},
	})

	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		Store:      st,
		Camera:     application.Camera(),
		Detector:   application.Detector(),
		Recognizer: recognizer,
		Plugins:    application.PluginManager(),
		Hub:        hub,
		AppConfig:  cfg,
		ConfigPath: *configPath,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	enabled, err := st.Settings().Get("recognition_enabled", "true")
	if err != nil {
		log.Printf("Failed to read enabled setting: %v", err)
		enabled = "true"
	}

	if err := application.Start(); err != nil {
		log.Printf("Camera pipeline not started: %v", err)
	} else {
		application.SetEnabled(enabled == "true")
	}

	if *headless {
		select {} // Server and pipeline keep running
	}

	t := tray.New()
	t.OnToggle(func(on bool) {
		application.SetEnabled(on)
		value := "false"
		if on {
			value = "true"
		}
		if err := st.Settings().Set("recognition_enabled", value); err != nil {
			log.Printf("Failed to persist enabled setting: %v", err)
		}
	})
	t.OnSettings(func() {
		log.Printf("Settings available at http://localhost%s", cfg.Server.Addr)
	})
	t.OnQuit(application.Stop)
	t.Run()
}

// loadLabels resolves one ordered label list: the database wins, then the
// configured CSV file, then the compiled-in defaults. Whatever source is
// used ends up persisted in the database.
func loadLabels(st *store.Store, kind store.LabelKind, csvPath string, fallback []string) []string {
	labels, err := st.Labels().List(kind)
	if err == nil && len(labels) > 0 {
		return labels
	}

	if csvPath != "" {
		if fromCSV, err := gesture.LoadLabelsCSV(csvPath); err == nil {
			labels = fromCSV
		}
	}
	if len(labels) == 0 {
		labels = fallback
	}

	if err := st.Labels().Replace(kind, labels); err != nil {
		log.Printf("Failed to persist %s labels: %v", kind, err)
	}
	return labels
}

// loadShapeClassifier loads the shape network, falling back to a
// classifier that reports every input as out of range so results come
// back as Unknown instead of a wrong class.
func loadShapeClassifier(path string) gesture.ShapeClassifier {
	net, err := classifier.Load(path)
	if err != nil {
		log.Printf("Shape classifier weights not loaded (%v), reporting Unknown", err)
		return gesture.ShapeClassifierFunc(func(gesture.StaticVector) int { return -1 })
	}
	return gesture.ShapeClassifierFunc(func(vec gesture.StaticVector) int {
		return net.Predict(vec[:])
	})
}

// loadMotionClassifier mirrors loadShapeClassifier for the motion network.
func loadMotionClassifier(path string) gesture.MotionClassifier {
	net, err := classifier.Load(path)
	if err != nil {
		log.Printf("Motion classifier weights not loaded (%v), reporting Unknown", err)
		return gesture.MotionClassifierFunc(func(gesture.MotionVector) int { return -1 })
	}
	return gesture.MotionClassifierFunc(func(vec gesture.MotionVector) int {
		return net.Predict(vec[:])
	})
}

// findWebDir searches for the web directory in common locations.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
