package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"rtsplit/pkg/config"
	"rtsplit/pkg/overlap"
	"rtsplit/pkg/rtstruct"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Path to the RTSTRUCT DICOM file")
	outputPath := flag.String("output", "", "Output report file (default: stdout)")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	zTolerance := flag.Float64("z-tolerance", 0, "Z quantization tolerance in mm (default: 0.001)")
	roiList := flag.String("rois", "", "Comma-separated ROI names to process (default: all)")
	timeout := flag.Duration("timeout", 0, "Optional time limit for the overlap search")
	flag.Parse()

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration, then let flags override it
	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *zTolerance > 0 {
		cfg.Split.ZTolerance = *zTolerance
	}
	if *roiList != "" {
		cfg.Split.ROIs = cfg.Split.ROIs[:0]
		for _, name := range strings.Split(*roiList, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Split.ROIs = append(cfg.Split.ROIs, name)
			}
		}
	}
	if *outputPath != "" {
		cfg.Output.Report = *outputPath
	}
	if !cfg.Output.Verbose {
		logrus.SetLevel(logrus.WarnLevel)
	}

	fmt.Println("================================")
	fmt.Println("RTSTRUCT NON-OVERLAP REGION SPLITTER")
	fmt.Println("================================")

	// Step 1: Read and parse the structure set
	fmt.Printf("Reading structure set: %s\n", *inputPath)
	record, err := rtstruct.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read structure set: %v", err)
	}

	regions, err := rtstruct.Parse(record, rtstruct.Options{
		ZTolerance: cfg.Split.ZTolerance,
		NameFilter: cfg.NameFilter(),
	})
	if err != nil {
		log.Fatalf("Failed to parse structure set: %v", err)
	}
	if len(regions) == 0 {
		log.Fatalf("No valid regions found in %s", *inputPath)
	}
	fmt.Printf("Loaded %d valid regions\n", len(regions))

	// Step 2: Build the conflict graph
	fmt.Println("Building conflict graph...")
	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	startTime := time.Now()
	graph, err := overlap.Build(ctx, regions)
	if err != nil {
		log.Fatalf("Conflict graph construction failed: %v", err)
	}

	// Step 3: Color and partition
	fmt.Println("Coloring with the DSATUR heuristic...")
	assignment := overlap.ColorGraph(graph)
	groups := assignment.Partition()
	elapsed := time.Since(startTime)

	// Step 4: Write the report
	var out io.Writer = os.Stdout
	if cfg.Output.Report != "" {
		file, err := os.Create(cfg.Output.Report)
		if err != nil {
			log.Fatalf("Failed to create report file: %v", err)
		}
		defer file.Close()
		out = file
	}
	if err := overlap.WriteReport(out, groups); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	if cfg.Output.Report != "" {
		fmt.Printf("Report saved to: %s\n", cfg.Output.Report)
	}

	fmt.Printf("\nSplit completed in %.2f seconds\n", elapsed.Seconds())
	fmt.Printf("- Total regions: %d\n", len(regions))
	fmt.Printf("- Groups: %d\n", assignment.Groups())
	for i, names := range groups {
		fmt.Printf("- Group %d: %d regions\n", i, len(names))
	}
}
