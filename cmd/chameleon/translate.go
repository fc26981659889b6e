package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rosed"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clarete/chameleon"
)

func newTranslateCmd(log *logrus.Logger) *cobra.Command {
	var (
		out        string
		entrypoint string
		prefix     string
		baby       bool
		features   []string
		configPath string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "translate <grammar.chm> [more.chm...]",
		Short: "Translate one or more .chm grammars into a C source file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := chameleon.LoadProjectConfig(configPath)
			if err != nil {
				return reportDiagnostic(err)
			}

			opts := buildOptions(cfg, entrypoint, prefix, baby, features, log)

			run := func() error {
				sources, err := readSources(args)
				if err != nil {
					return reportDiagnostic(err)
				}
				code, err := chameleon.Translate(sources, opts)
				if err != nil {
					return reportDiagnostic(err)
				}
				return writeOutput(out, code)
			}

			if err := run(); err != nil {
				if !watch {
					return err
				}
				fmt.Fprintln(os.Stderr, err)
			} else if watch {
				fmt.Fprintln(os.Stderr, "translated; watching for changes")
			}

			if !watch {
				return nil
			}
			return watchAndRetranslate(args, run)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (defaults to stdout)")
	cmd.Flags().StringVar(&entrypoint, "entrypoint", "", "override the grammar's entrypoint struct")
	cmd.Flags().StringVar(&prefix, "prefix", "", "C symbol prefix (default \"chameleon\")")
	cmd.Flags().BoolVar(&baby, "baby", false, "emit only seed()/generate(), no walk/mutate")
	cmd.Flags().StringArrayVar(&features, "feature", nil, "enable an optional feature (thread-safe)")
	cmd.Flags().StringVar(&configPath, "config", "chameleon.toml", "project config file")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-translate whenever an input file changes")

	return cmd
}

func buildOptions(cfg chameleon.ProjectConfig, entrypoint, prefix string, baby bool, features []string, log *logrus.Logger) chameleon.TranslateOptions {
	if entrypoint == "" {
		entrypoint = cfg.Entrypoint
	}
	if prefix == "" {
		prefix = cfg.Prefix
	}
	threadSafe := cfg.ThreadSafe
	for _, f := range features {
		if f == "thread-safe" {
			threadSafe = true
		}
	}
	return chameleon.TranslateOptions{
		Entrypoint: entrypoint,
		Emit: chameleon.EmitOptions{
			Prefix:     prefix,
			Baby:       baby || cfg.Baby,
			ThreadSafe: threadSafe,
		},
		Log: log,
	}
}

// readSources reads every explicitly named grammar file and then walks
// SPEC_FULL.md §4.1's `import "path.chm";` declarations to a fixed point,
// resolving each import relative to the directory of the file that
// names it. De-duplicating on absolute path means a file imported from
// two places is only read once, and an import cycle terminates instead
// of looping.
func readSources(paths []string) ([]*chameleon.Source, error) {
	seen := map[string]bool{}
	var sources []*chameleon.Source
	queue := append([]string(nil), paths...)

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true

		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		src := &chameleon.Source{Name: p, Bytes: data}
		sources = append(sources, src)

		imports, err := chameleon.ImportPaths(src)
		if err != nil {
			return nil, err
		}
		for _, imp := range imports {
			if !filepath.IsAbs(imp) {
				imp = filepath.Join(filepath.Dir(p), imp)
			}
			queue = append(queue, imp)
		}
	}

	return sources, nil
}

func writeOutput(out, code string) error {
	if out == "" {
		_, err := fmt.Print(code)
		return err
	}
	return os.WriteFile(out, []byte(code), 0o644)
}

// watchAndRetranslate re-runs run whenever one of paths' containing
// directories reports a write event, per SPEC_FULL.md §4.5's --watch
// flag. Watching directories rather than files directly sidesteps the
// inode-replacement problem most editors' save-as-rename trips up.
func watchAndRetranslate(paths []string, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs := map[string]bool{}
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := run(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			} else {
				fmt.Fprintln(os.Stderr, "translated; watching for changes")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// reportDiagnostic wraps a *chameleon.CompileError's message to 80
// columns before returning it, so cobra's default error printer
// doesn't dump an unreadable single line for a long suggestion.
func reportDiagnostic(err error) error {
	var ce *chameleon.CompileError
	if errors.As(err, &ce) {
		wrapped := rosed.Edit(ce.Error()).Wrap(80).String()
		return fmt.Errorf("%s", wrapped)
	}
	return err
}
