package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/config"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/lexer"
	"github.com/n-lang/ncore/internal/project"
	"github.com/n-lang/ncore/internal/sema"
	"github.com/n-lang/ncore/internal/stdlib"
)

var ErrHasDiagnostics = errors.New("project has diagnostics")

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "resolve a project and report diagnostics",
		ArgsUsage: "[project dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to .n-project.yaml (default: <dir>/.n-project.yaml)",
			},
			&cli.StringFlag{
				Name:  "entry",
				Usage: "entry module name, overrides config",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Aliases: []string{"v"},
				Usage: "verbose logging",
			},
		},
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	dir := "."
	if args := cmd.Args().Slice(); len(args) > 0 {
		dir = args[0]
	}

	level := zap.InfoLevel
	if cmd.Bool("verbose") {
		level = zap.DebugLevel
	}
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfgPath := cmd.String("config")
	if cfgPath == "" {
		cfgPath = dir + "/.n-project.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("no project config found, using defaults", zap.Error(err))
		cfg = config.Default()
		cfg.Root = dir
	}
	if entry := cmd.String("entry"); entry != "" {
		cfg.EntryModule = entry
	}

	logger.Info("resolving project", zap.String("root", cfg.Root), zap.String("entry", cfg.EntryModule))

	source := project.NewDirTextSource(cfg.Root)
	analyzer := sema.NewAnalyzer(stdlib.MSSQLBundle())
	proj := project.NewProject(source, analyzer)
	proj.RequestModule(entryPath(cfg.EntryModule))

	diags := proj.Resolve()
	printDiagnostics(diags)

	if !diags.Empty() {
		return ErrHasDiagnostics
	}
	logger.Info("ok")
	return nil
}

// entryPath turns a bare module name from config into the single-segment
// ast.Path the project driver requests modules by.
func entryPath(name string) ast.Path {
	return ast.NewPath(lexer.ItemPosition{}, "::", name)
}

func printDiagnostics(diags *diag.Set) {
	for _, d := range diags.All() {
		fmt.Fprintln(os.Stderr, diag.Render(d))
	}
}
