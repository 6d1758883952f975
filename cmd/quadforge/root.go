package main

import (
	"fmt"
	"os"

	systemddbus "github.com/coreos/go-systemd/v22/dbus"
	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quadforge/quadforge/internal/config"
	"github.com/quadforge/quadforge/internal/fsio"
	"github.com/quadforge/quadforge/internal/generator"
	"github.com/quadforge/quadforge/internal/logger"
	"github.com/quadforge/quadforge/internal/translate"
)

var (
	userMode    bool
	verbose     bool
	noKmsgLog   bool
	dryRun      bool
	engine      string
	outputFmt   string
	searchPaths []string
)

// Execute builds and runs the quadforge root command, returning the error
// (if any) cobra surfaced. main translates that into the process exit code.
func Execute() error {
	root := &cobra.Command{
		Use:   "quadforge [flags] <output-dir>",
		Short: "Translate Quadlet unit files into systemd units",
		Long: `quadforge reads declarative container unit files (.container, .volume,
.network, .pod, .kube, .image, .build) from the Quadlet search paths and
writes the corresponding systemd unit files into <output-dir>, the way
systemd invokes a generator at boot or user-session time.`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}

	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	root.Flags().BoolVar(&userMode, "user", false, "generate against the per-user search paths")
	root.Flags().BoolVar(&noKmsgLog, "no-kmsg-log", false, "log translation failures at warning level instead of error level")
	root.Flags().BoolVar(&dryRun, "dryrun", false, "print what would be generated without writing output units")
	root.Flags().StringVar(&engine, "engine", config.DefaultEngine, "container engine executable invoked by ExecStart=")
	root.Flags().StringVar(&outputFmt, "output", "text", "summary format: text|json|yaml")
	root.Flags().StringSliceVar(&searchPaths, "search-path", nil, "override the Quadlet unit search paths (repeatable)")

	_ = viper.BindPFlag("verbose", root.Flags().Lookup("verbose"))

	return root.Execute()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger.Init(verbose)
	log := logger.Get()

	outputDir := args[0]

	cfg := &config.Config{
		UserMode:  userMode,
		Verbose:   verbose,
		DryRun:    dryRun,
		NoKmsgLog: noKmsgLog,
		Engine:    engine,
		OutputDir: outputDir,
	}

	dirs := searchPaths
	if len(dirs) == 0 {
		dirs = config.SearchPaths(cfg.UserMode)
	}

	src := fsio.DirSource{Dirs: dirs, Log: log}
	sink := fsio.DirSink{Dir: cfg.OutputDir, DryRun: cfg.DryRun, Log: log}

	tctx := translate.Context{
		EnginePath: resolveEnginePath(cfg.Engine),
		UserMode:   cfg.UserMode,
	}

	report, err := generator.Generate(src, sink, tctx)
	if err != nil {
		log.Error("generation aborted", "err", err)
		return err
	}

	for _, f := range report.Failed {
		if cfg.NoKmsgLog {
			log.Warn("unit translation failed", "stem", f.Stem, "kind", string(f.Kind), "err", f.Err)
		} else {
			log.Error("unit translation failed", "stem", f.Stem, "kind", string(f.Kind), "err", f.Err)
		}
	}
	for _, w := range report.Warnings {
		log.Warn(w)
	}

	if err := printSummary(cmd, report); err != nil {
		log.Warn("failed to print summary", "err", err)
	}

	if cfg.DryRun && len(report.Failed) > 0 {
		return fmt.Errorf("quadforge: %d unit(s) failed to translate", len(report.Failed))
	}
	return nil
}

func resolveEnginePath(name string) string {
	if name == "" {
		return translate.DefaultEnginePath
	}
	if name == config.DefaultEngine {
		return translate.DefaultEnginePath
	}
	return name
}

func printSummary(cmd *cobra.Command, report *generator.Report) error {
	switch outputFmt {
	case "json", "yaml":
		return printStructured(outputFmt, report)
	default:
		printTable(report)
		return nil
	}
}

func printTable(report *generator.Report) {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()
	tbl := table.New("UNIT", "STATUS", "DBUS OBJECT PATH")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)

	for _, name := range report.Generated {
		tbl.AddRow(name, "generated", unitObjectPath(name))
	}
	for _, f := range report.Failed {
		tbl.AddRow(fmt.Sprintf("%s.%s", f.Stem, f.Kind), "failed: "+f.Err.Error(), "")
	}
	tbl.Print()

	fmt.Fprintf(os.Stdout, "\n%d generated, %d failed\n", len(report.Generated), len(report.Failed))
}

// unitObjectPath renders the D-Bus object path systemd would expose this
// unit under, using go-systemd's pure path-escaping helper. This never
// opens a D-Bus connection — activating or querying the running manager
// is out of scope (spec §1) — it only formats the path for the operator's
// benefit when cross-referencing with systemctl/busctl output.
func unitObjectPath(unitName string) string {
	return "/org/freedesktop/systemd1/unit/" + systemddbus.PathBusEscape(unitName)
}
