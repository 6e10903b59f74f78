package main

import (
	"github.com/spf13/cobra"

	"github.com/dkoosis/lens/internal/config"
	"github.com/dkoosis/lens/internal/version"
	"github.com/dkoosis/lens/pkg/job"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "lens",
		Short:         "Analyze, visualize and generate tests for legacy codebases",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	f := root.PersistentFlags()
	f.StringVar(&a.flags.ConfigPath, "config", "", "Config file (default: .lens.yaml, then the user config dir)")
	f.StringVar(&a.flags.Interpreter, "interpreter", "", "Interpreter for analyze and visualize scripts")
	f.StringVar(&a.flags.TestsInterpreter, "tests-interpreter", "", "Interpreter for the test generation script")
	f.StringVar(&a.flags.ScriptDir, "script-dir", "", "Directory holding the scripts (default: next to the lens binary)")
	f.StringVar(&a.flags.Format, "format", "", "Output format: auto, terminal, plain, json, yaml")
	f.StringVar(&a.flags.Theme, "theme", "", "Theme: default, orca, mono")
	f.StringVar(&a.flags.Panel, "panel", "", "Diagram panel: tui, html, none")
	f.StringVar(&a.flags.MermaidURL, "mermaid-url", "", "Mermaid script URL for HTML panels")
	f.StringVar(&a.flags.HTMLOut, "html-out", "", "Write the diagram panel HTML to this file")
	f.StringVar(&a.flags.ExportSVG, "export-svg", "", "Render the diagram to this SVG file with a headless browser")
	f.Int64Var(&a.flags.MaxBufferSize, "max-buffer-size", 0, "Bytes kept per output stream")
	f.BoolVar(&a.flags.NoColor, "no-color", false, "Disable colors")
	f.BoolVar(&a.flags.Debug, "debug", false, "Enable debug logging")
	f.BoolVar(&a.open, "open", false, "Open the diagram panel HTML in the system browser")

	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		a.flags.NoColorSet = cmd.Flags().Changed("no-color")
		a.flags.DebugSet = cmd.Flags().Changed("debug")
		a.flags.MaxBufferSizeSet = cmd.Flags().Changed("max-buffer-size")
	}

	for _, kind := range job.Kinds() {
		root.AddCommand(newJobCmd(a, kind))
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.String())
		},
	})
	return root
}

func newJobCmd(a *app, kind job.Kind) *cobra.Command {
	aliases := map[job.Kind][]string{
		job.Analyze:       {"analyse"},
		job.Visualize:     {"visualise", "viz"},
		job.GenerateTests: {"generate-tests", "test"},
	}
	return &cobra.Command{
		Use:     kind.String() + " [folder]",
		Short:   kind.Title(),
		Aliases: aliases[kind],
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := ""
			if len(args) == 1 {
				folder = args[0]
			}
			cfg, err := config.ResolveConfig(a.flags)
			if err != nil {
				return usageError{err}
			}
			return a.runJob(cmd.Context(), cfg, kind, folder)
		},
	}
}
