package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lsc/internal/batch"
	"github.com/standardbeagle/lsc/internal/config"
	"github.com/standardbeagle/lsc/internal/debug"
	"github.com/standardbeagle/lsc/internal/records"
	"github.com/standardbeagle/lsc/internal/version"
	"github.com/standardbeagle/lsc/internal/vocab"
)

func main() {
	app := &cli.App{
		Name:                   "lsc",
		Usage:                  "Subject label classification for report titles",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "directory to search for .lsc.kdl",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				os.Setenv("LSC_DEBUG", "1")
				debug.SetDebugOutput(os.Stderr)
			}
			return nil
		},
		Commands: []*cli.Command{
			classifyCommand(),
			vocabCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.Bool("serial") {
		cfg.Performance.EnableParallel = false
	}
	if workers := c.Int("workers"); workers > 0 {
		cfg.Performance.MaxWorkers = workers
	}
	if chunkSize := c.Int("chunk-size"); chunkSize > 0 {
		cfg.Performance.ChunkSize = chunkSize
	}

	return cfg, nil
}

func classifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Classify records from CSV input against a subject vocabulary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "input file or glob (newest match wins)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "vocab",
				Aliases:  []string{"s"},
				Usage:    "vocabulary file (.json, .toml, or newline list)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output CSV path (default: <input>.classified.csv)",
			},
			&cli.IntFlag{
				Name:  "column",
				Usage: "zero-based index of the text column",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "header",
				Usage: "treat the first row as a header",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "serial",
				Usage: "disable parallel batch execution",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "worker count for parallel execution (0 = auto)",
			},
			&cli.IntFlag{
				Name:  "chunk-size",
				Usage: "records per parallel chunk",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "re-run classification when input or vocabulary change",
			},
		},
		Action: runClassify,
	}
}

func runClassify(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	job := &classifyJob{
		cfg:       cfg,
		inputGlob: c.String("input"),
		vocabPath: c.String("vocab"),
		output:    c.String("output"),
		opts: records.ReadOptions{
			Column:    c.Int("column"),
			HasHeader: c.Bool("header"),
		},
	}

	if c.Bool("watch") {
		return watchAndClassify(c.Context, job)
	}
	return job.run(c.Context)
}

// classifyJob bundles everything one classification run needs, so the watch
// loop can re-run it whenever inputs change.
type classifyJob struct {
	cfg       *config.Config
	inputGlob string
	vocabPath string
	output    string
	opts      records.ReadOptions
}

func (j *classifyJob) run(ctx context.Context) error {
	v, err := vocab.LoadFile(j.vocabPath)
	if err != nil {
		return err
	}

	scheduler, err := batch.NewScheduler(v, j.cfg)
	if err != nil {
		return err
	}

	input, err := records.Latest(j.inputGlob)
	if err != nil {
		return err
	}

	file, err := records.Read(input, j.opts)
	if err != nil {
		return err
	}

	results := scheduler.ClassifyBatch(ctx, file.Records)

	output := j.output
	if output == "" {
		output = input + ".classified.csv"
	}
	if err := file.Write(output, results); err != nil {
		return err
	}

	stats := scheduler.Stats()
	fmt.Printf("Classified %s -> %s\n", input, output)
	fmt.Printf("  %s\n", stats.Summary())
	return nil
}

func vocabCommand() *cli.Command {
	return &cli.Command{
		Name:  "vocab",
		Usage: "Inspect a vocabulary file after normalization and filtering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "vocab",
				Aliases:  []string{"s"},
				Usage:    "vocabulary file (.json, .toml, or newline list)",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			v, err := vocab.LoadFile(c.String("vocab"))
			if err != nil {
				return err
			}

			fmt.Printf("%d subjects:\n", v.Len())
			for _, s := range v.Subjects() {
				fmt.Printf("  %-24s weight=%.2f\n", s.Label, s.Weight)
			}
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Println(version.FullInfo())
			return nil
		},
	}
}
