package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"watercoherer/pkg/coherer"
	"watercoherer/pkg/config"
)

var (
	configPath string
	numCores   int
	outputDir  string
	verbose    bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "watercoherer",
	Short: "Surface water extent from multi-band satellite scenes",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevels()
	},
}

// runCmd processes a time series of scene directories
var runCmd = &cobra.Command{
	Use:   "run SCENE_DIR [SCENE_DIR...]",
	Short: "Localize water in each scene under a shared temporal cloud mask",
	Long: `Load each scene directory (one TIFF file per band, band digit six
characters from the end of the file name), detect clouds in every scene,
merge them into one mask, and write the NDWI raster and the clear/turbid
water composite of each scene.

Scene directories are processed in the order given; water extent changes
are reported between consecutive scenes. Directories sharing a base name
get a numeric suffix so their masks and outputs stay apart.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("cores") {
			cfg.Processing.NumCores = numCores
		}
		if cmd.Flags().Changed("output") {
			cfg.Output.Directory = outputDir
		}
		if cfg.Output.Verbose && !debug {
			logrus.SetLevel(logrus.InfoLevel)
		}

		logrus.WithFields(logrus.Fields{
			"cores":     cfg.Processing.NumCores,
			"method":    cfg.Index.Method.String(),
			"threshold": cfg.Index.Threshold,
		}).Info("Water Coherer: Application starting...")

		c, err := coherer.NewCoherer(&coherer.Params{
			SceneDirs: args,
			OutputDir: cfg.Output.Directory,
			Config:    cfg,
		})
		if err != nil {
			return err
		}
		if err := c.Process(); err != nil {
			return fmt.Errorf("processing failed: %w", err)
		}

		printMetrics(c.GetMetrics(), cfg.Output.Directory)
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [PATH]",
	Short: "Write a configuration file with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.CreateDefaultConfigFile(path); err != nil {
			return err
		}
		logrus.WithField("path", path).Info("Wrote default configuration")
		return nil
	},
}

func printMetrics(m coherer.Metrics, outputDir string) {
	fmt.Printf("\nProcessing completed in %.2f seconds\n", m.Elapsed.Seconds())
	fmt.Printf("Merged cloud mask: %d pixels\n\n", m.MaskPixels)

	fmt.Println("Scene                         Clouds     Water     Clear    Turbid   Mean NDWI")
	fmt.Println("===============================================================================")
	for _, s := range m.Scenes {
		fmt.Printf("%-28s %7d %9d %9d %9d %11.3f\n",
			s.Label, s.CloudPixels, s.WaterPixels, s.ClearPixels, s.TurbidPixels, s.Index.Mean)
	}

	if len(m.Changes) > 0 {
		fmt.Println("\nWater extent changes:")
		for _, c := range m.Changes {
			fmt.Printf("- %s -> %s: +%d / -%d (stable %d)\n", c.From, c.To, c.Gained, c.Lost, c.Stable)
		}
		fmt.Printf("Mean water extent: %.1f pixels (std dev %.1f)\n", m.MeanWaterPixels, m.StdDevWaterPixels)
	}

	if outputDir != "" {
		abs, err := filepath.Abs(outputDir)
		if err != nil {
			abs = outputDir
		}
		fmt.Printf("\nRasters saved to: %s\n", abs)
	}
}

func setLogLevels() {
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else if verbose {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "watercoherer.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output")

	runCmd.Flags().IntVarP(&numCores, "cores", "n", runtime.NumCPU(), "Number of worker goroutines per computation")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for the generated rasters (overrides the config file)")

	rootCmd.AddCommand(runCmd, initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
