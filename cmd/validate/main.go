package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"dqcli/internal/config"
	"dqcli/internal/infrastructure"
	"dqcli/internal/loader"
	"dqcli/internal/services"
)

func main() {
	in := flag.String("in", "", "input file (csv, json, xlsx) or directory of such files")
	rules := flag.String("rules", "", "rules YAML file (defaults to the configured rules file)")
	out := flag.String("out", "", "output directory for reports (defaults to the configured reports dir)")
	strict := flag.Bool("strict", false, "exit with code 2 when validation reports defects")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: validate -in <file|dir> [-rules rules.yml] [-out dir] [-strict]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *rules == "" {
		*rules = cfg.Validation.RulesFile
	}
	if *out != "" {
		cfg.Paths.ReportsDir = *out
	}

	logger, logClose, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer logClose()

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirs(); err != nil {
		logger.Error("failed to prepare directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	inputs, err := resolveInputs(*in)
	if err != nil {
		logger.Error("failed to resolve inputs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	service := services.NewValidationService(logger, paths, nil, cfg.Validation.Delimiter())
	ctx := infrastructure.EnsureTraceID(context.Background())

	defects := 0
	for _, input := range inputs {
		result, err := service.Run(ctx, input, *rules)
		if err != nil {
			logger.Error("validation run failed",
				slog.String("input", input),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		fmt.Printf("%s: %s\n", input, result.Outcome)
		for _, msg := range result.Outcome.Errors {
			fmt.Printf("  - %s\n", msg)
		}
		fmt.Printf("  %d of %d rows valid, report: %s\n", result.ValidRows, result.InputRows, result.ReportPath)
		defects += len(result.Outcome.Errors)
	}

	if *strict && defects > 0 {
		os.Exit(2)
	}
}

// resolveInputs expands a directory argument into its loadable files.
func resolveInputs(in string) ([]string, error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{in}, nil
	}
	files, err := loader.DiscoverFiles(in)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no loadable files in %s", in)
	}
	return files, nil
}
