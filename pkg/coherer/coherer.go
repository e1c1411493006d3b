// Package coherer sequences the water analytics over a time series of
// scenes and writes the resulting rasters.
package coherer

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"watercoherer/internal/models"
	"watercoherer/pkg/clouds"
	"watercoherer/pkg/config"
	"watercoherer/pkg/ndwi"
	"watercoherer/pkg/scene"
	"watercoherer/pkg/visualization"
	"watercoherer/pkg/water"
)

// SceneMetrics holds the per-acquisition results of a run
type SceneMetrics struct {
	// Label identifies the scene
	Label string

	// CloudPixels is the number of pixels flagged in this scene alone
	CloudPixels int

	// WaterPixels is the number of water pixels under the merged cloud mask
	WaterPixels int

	// ClearPixels and TurbidPixels split WaterPixels by clarity
	ClearPixels  int
	TurbidPixels int

	// Index summarizes the spectral index over valid pixels
	Index ndwi.Summary
}

// ChangeMetrics compares the water extent of two consecutive scenes
type ChangeMetrics struct {
	From, To string
	Gained   int
	Lost     int
	Stable   int
}

// Metrics collects the results of a complete run
type Metrics struct {
	Scenes  []SceneMetrics
	Changes []ChangeMetrics

	// MaskPixels is the size of the merged temporal cloud mask
	MaskPixels int

	// MeanWaterPixels and StdDevWaterPixels describe the water extent across scenes
	MeanWaterPixels   float64
	StdDevWaterPixels float64

	Elapsed time.Duration
}

// Params holds the parameters of one run
type Params struct {
	// SceneDirs lists the acquisition directories in temporal order
	SceneDirs []string

	// OutputDir receives the generated rasters. Empty disables writing.
	OutputDir string

	// Config holds the analytics parameters
	Config *config.Config
}

// Coherer runs the water extent pipeline over a time series of scenes:
//
//  1. Loading every scene's band layers
//  2. Detecting clouds per scene and merging them into one temporal mask
//  3. Computing the index raster of each scene
//  4. Localizing water under the merged mask
//  5. Classifying water clarity with the differencer
//  6. Comparing water extents between consecutive scenes
type Coherer struct {
	params *Params

	calc      *ndwi.Calculator
	localizer *water.Localizer
	detector  *clouds.Detector

	scenes  []*scene.Scene
	mask    models.CoordinateSet
	water   []models.CoordinateSet
	metrics Metrics
}

// NewCoherer validates the parameters and builds the analytics components.
// An unknown index method surfaces here as models.ErrInvalidMethod.
func NewCoherer(params *Params) (*Coherer, error) {
	if params == nil || params.Config == nil {
		return nil, errors.New("coherer requires parameters and a configuration")
	}
	if len(params.SceneDirs) == 0 {
		return nil, errors.New("no scene directories given")
	}
	cfg := params.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	calc, err := ndwi.NewCalculator(cfg.Index.Method, cfg.Index.Threshold, cfg.Index.ReflectanceFloor)
	if err != nil {
		return nil, err
	}
	localizer, err := water.NewLocalizer(calc)
	if err != nil {
		return nil, err
	}
	detector, err := clouds.NewDetector(cfg.Clouds.Threshold)
	if err != nil {
		return nil, err
	}

	return &Coherer{
		params:    params,
		calc:      calc,
		localizer: localizer,
		detector:  detector,
	}, nil
}

// Process runs the complete pipeline
func (c *Coherer) Process() error {
	start := time.Now()
	c.metrics = Metrics{}
	c.water = nil

	logrus.WithField("scenes", len(c.params.SceneDirs)).Info("Step 1: Loading scenes...")
	if err := c.loadScenes(); err != nil {
		return fmt.Errorf("failed to load scenes: %w", err)
	}

	logrus.Info("Step 2: Detecting clouds...")
	if err := c.detectClouds(); err != nil {
		return fmt.Errorf("failed to detect clouds: %w", err)
	}

	logrus.Info("Step 3: Localizing and classifying water...")
	for i, s := range c.scenes {
		if err := c.processScene(i, s); err != nil {
			return fmt.Errorf("scene %s: %w", s.Label, err)
		}
	}

	logrus.Info("Step 4: Comparing water extents...")
	c.compareScenes()

	c.metrics.Elapsed = time.Since(start)
	return nil
}

// GetMetrics returns the metrics of the last run
func (c *Coherer) GetMetrics() Metrics {
	return c.metrics
}

func (c *Coherer) workers() int {
	return c.params.Config.Processing.NumCores
}

// loadScenes loads every scene directory. Labels key the cloud detections and
// the output directories, so a label already taken gets a numeric suffix.
func (c *Coherer) loadScenes() error {
	c.scenes = c.scenes[:0]
	seen := make(map[string]bool, len(c.params.SceneDirs))
	for _, dir := range c.params.SceneDirs {
		s, err := scene.Load(dir)
		if err != nil {
			return err
		}
		if seen[s.Label] {
			label := uniqueLabel(s.Label, seen)
			logrus.WithFields(logrus.Fields{
				"dir":   dir,
				"label": label,
			}).Warn("Scene label already taken, renaming")
			s.Label = label
		}
		seen[s.Label] = true
		if len(c.scenes) > 0 {
			first := c.scenes[0]
			if s.Width != first.Width || s.Height != first.Height {
				return fmt.Errorf("%w: scene %s is %dx%d, scene %s is %dx%d", models.ErrShapeMismatch,
					s.Label, s.Width, s.Height, first.Label, first.Width, first.Height)
			}
		}
		logrus.WithFields(logrus.Fields{
			"scene":  s.Label,
			"bands":  len(s.Bands()),
			"width":  s.Width,
			"height": s.Height,
		}).Info("Loaded scene")
		c.scenes = append(c.scenes, s)
	}
	return nil
}

func uniqueLabel(base string, seen map[string]bool) string {
	for n := 2; ; n++ {
		label := fmt.Sprintf("%s_%d", base, n)
		if !seen[label] {
			return label
		}
	}
}

// detectClouds flags clouds in every scene and merges them into one mask
// that is applied to all scenes alike
func (c *Coherer) detectClouds() error {
	band := c.params.Config.Clouds.Band
	detections := make(models.CloudMaskLayers, len(c.scenes))
	perScene := make([]int, len(c.scenes))

	for i, s := range c.scenes {
		layer, err := s.Layer(band)
		if err != nil {
			return err
		}
		set := c.detector.Detect(layer, c.workers())
		detections[s.Label] = set
		perScene[i] = set.Len()

		logrus.WithFields(logrus.Fields{
			"scene":    s.Label,
			"pixels":   set.Len(),
			"coverage": fmt.Sprintf("%.2f%%", clouds.Coverage(set, s.Width, s.Height)*100),
		}).Info("Detected clouds")

		if err := c.save(s.Label, "clouds.tiff", c.params.Config.Output.SaveCloudLayers, func(path string) error {
			return visualization.SaveTIFF(clouds.Render(set, s.Width, s.Height), path)
		}); err != nil {
			return err
		}
	}

	c.mask = clouds.Merge(detections)
	c.metrics.MaskPixels = c.mask.Len()
	logrus.WithField("pixels", c.mask.Len()).Info("Merged temporal cloud mask")

	c.metrics.Scenes = make([]SceneMetrics, len(c.scenes))
	for i, s := range c.scenes {
		c.metrics.Scenes[i] = SceneMetrics{Label: s.Label, CloudPixels: perScene[i]}
	}

	first := c.scenes[0]
	return c.save("", "cloud_mask.tiff", c.params.Config.Output.SaveCloudLayers, func(path string) error {
		return visualization.SaveTIFF(clouds.Render(c.mask, first.Width, first.Height), path)
	})
}

func (c *Coherer) processScene(i int, s *scene.Scene) error {
	cfg := c.params.Config

	bandA, bandB, err := c.calc.Method().Bands()
	if err != nil {
		return err
	}
	layerA, err := s.Layer(bandA)
	if err != nil {
		return err
	}
	layerB, err := s.Layer(bandB)
	if err != nil {
		return err
	}
	reference, err := s.Layer(cfg.Differencer.ReferenceBand)
	if err != nil {
		return err
	}

	ndwiRaster := c.calc.ComputeRasterParallel(layerA, layerB, c.workers())
	if err := c.save(s.Label, "ndwi.tiff", true, func(path string) error {
		return visualization.SaveTIFF(ndwiRaster, path)
	}); err != nil {
		return err
	}

	indexLayer := c.calc.IndexLayer(layerA, layerB, c.workers())
	if err := c.save(s.Label, "ndwi_index.tiff", true, func(path string) error {
		return visualization.SaveImage(visualization.IndexToImage(indexLayer), path)
	}); err != nil {
		return err
	}

	located := c.localizer.Localize(layerA, layerB, c.workers(), c.mask)
	c.water = append(c.water, located)

	differencer := water.NewDifferencer(located, cfg.Differencer.ClarityThreshold)
	composite := differencer.Classify(reference)
	if err := c.save(s.Label, "water_clasterized.tiff", true, func(path string) error {
		return visualization.SaveTIFF(composite, path)
	}); err != nil {
		return err
	}

	metrics := &c.metrics.Scenes[i]
	metrics.WaterPixels = located.Len()
	metrics.ClearPixels, metrics.TurbidPixels = differencer.Counts(reference)
	metrics.Index = c.calc.SummarizeIndex(indexLayer)

	logrus.WithFields(logrus.Fields{
		"scene":  s.Label,
		"water":  metrics.WaterPixels,
		"clear":  metrics.ClearPixels,
		"turbid": metrics.TurbidPixels,
	}).Info("Localized water")
	return nil
}

func (c *Coherer) compareScenes() {
	counts := make([]float64, len(c.water))
	for i, set := range c.water {
		counts[i] = float64(set.Len())
	}
	if len(counts) > 1 {
		c.metrics.MeanWaterPixels, c.metrics.StdDevWaterPixels = stat.MeanStdDev(counts, nil)
	} else if len(counts) == 1 {
		c.metrics.MeanWaterPixels = counts[0]
	}

	for i := 1; i < len(c.water); i++ {
		change := water.Compare(c.water[i-1], c.water[i])
		cm := ChangeMetrics{
			From:   c.scenes[i-1].Label,
			To:     c.scenes[i].Label,
			Gained: change.Gained.Len(),
			Lost:   change.Lost.Len(),
			Stable: change.Stable.Len(),
		}
		c.metrics.Changes = append(c.metrics.Changes, cm)
		logrus.WithFields(logrus.Fields{
			"from":   cm.From,
			"to":     cm.To,
			"gained": cm.Gained,
			"lost":   cm.Lost,
		}).Info("Water extent change")
	}
}

// save writes one output file below OutputDir/label when enabled
func (c *Coherer) save(label, name string, enabled bool, write func(path string) error) error {
	if !enabled || c.params.OutputDir == "" {
		return nil
	}
	path := filepath.Join(c.params.OutputDir, label, name)
	if err := write(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	logrus.WithField("path", path).Debug("Saved raster")
	return nil
}
