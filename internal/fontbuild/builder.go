// Package fontbuild creates TeX font metric files for fonts that ship
// without them. It drives the Metafont toolchain through external
// processes and falls back to the HBF bitmap route when no Metafont
// source can be found or synthesized.
package fontbuild

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"texkit/internal/logging"
	"texkit/internal/toolrun"
)

// FontInfoResolver maps a font name to its supplier and typeface. A
// false return means the font is unknown and the defaults apply.
type FontInfoResolver interface {
	FontInfo(name string) (supplier, typeface string, ok bool)
}

// SourceFinder locates an existing Metafont source file for a font.
type SourceFinder interface {
	FindFontSource(name string) (string, bool)
}

// Options configures a Builder.
type Options struct {
	// DestDirTemplate is the destination directory pattern. %s expands
	// to the supplier, %t to the typeface, %% to a literal percent.
	DestDirTemplate string

	// Mode is the Metafont mode (for example "ljfour").
	Mode string

	// Resolution in dots per inch, passed to hbf2gf.
	Resolution int

	// PrintOnly logs the commands that would run without running them.
	PrintOnly bool

	Runner toolrun.Runner
	Fonts  FontInfoResolver
	Finder SourceFinder
	Logger *slog.Logger
}

// Builder makes TFM files.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// New validates the options and returns a Builder.
func New(opts Options) (*Builder, error) {
	if opts.Runner == nil {
		return nil, fmt.Errorf("fontbuild: runner is required")
	}
	if opts.Finder == nil {
		return nil, fmt.Errorf("fontbuild: source finder is required")
	}
	if strings.TrimSpace(opts.DestDirTemplate) == "" {
		return nil, fmt.Errorf("fontbuild: destination template is required")
	}
	if opts.Mode == "" {
		opts.Mode = "ljfour"
	}
	if opts.Resolution <= 0 {
		opts.Resolution = 300
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Builder{
		opts:   opts,
		logger: logger.With(slog.String(logging.FieldComponent, "fontbuild")),
	}, nil
}

// Build creates the TFM file for name and returns its installed path.
// An existing destination file short-circuits the build.
func (b *Builder) Build(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("fontbuild: font name is required")
	}
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("fontbuild: invalid font name %q", name)
	}

	destDir, err := b.destinationDirectory(name)
	if err != nil {
		return "", err
	}
	destPath := filepath.Join(destDir, name+".tfm")
	if _, err := os.Stat(destPath); err == nil {
		b.logger.Info("TFM file already exists", slog.String("path", destPath))
		return destPath, nil
	}

	workDir, err := os.MkdirTemp("", "texkit-maketfm-")
	if err != nil {
		return "", fmt.Errorf("create working directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	built := false
	if _, found := b.opts.Finder.FindFontSource(name); !found {
		// No Metafont source on disk. makemf can synthesize a driver
		// file for parameterized families; if it cannot, the HBF
		// bitmap route is the last resort.
		if ok, err := b.run(ctx, workDir, "makemf", name); err != nil {
			return "", err
		} else if !ok {
			if err := b.buildFromHBF(ctx, workDir, name); err != nil {
				return "", err
			}
			built = true
		}
	}

	if !built {
		b.logger.Info("running Metafont",
			slog.String("font", name),
			slog.String("mode", b.opts.Mode))
		program := fmt.Sprintf(`\mode:=%s; mag:=1; nonstopmode; input %s;`, b.opts.Mode, name)
		if ok, err := b.run(ctx, workDir, "mf", program); err != nil {
			return "", err
		} else if !ok {
			return "", fmt.Errorf("metafont failed on %q", name)
		}
	}

	if b.opts.PrintOnly {
		b.logger.Info("print-only run, nothing installed", slog.String("font", name))
		return destPath, nil
	}
	if err := b.install(filepath.Join(workDir, name+".tfm"), destPath); err != nil {
		return "", err
	}
	b.logger.Info("TFM file installed", slog.String("path", destPath))
	return destPath, nil
}

// buildFromHBF converts a bitmap HBF font: hbf2gf emits a property
// list, pltotf compiles it. A pltotf failure is fatal because at that
// point the HBF route is the only rule left for the font.
func (b *Builder) buildFromHBF(ctx context.Context, workDir, name string) error {
	ok, err := b.run(ctx, workDir, "hbf2gf", "-g", name, strconv.Itoa(b.opts.Resolution))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no creation rule for font %q", name)
	}
	ok, err = b.run(ctx, workDir, "pltotf", name+".pl", name+".tfm")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("pltotf failed on %q", name)
	}
	return nil
}

// run executes one toolchain program in workDir. The bool reports
// whether the program exited zero; the error covers start failures.
func (b *Builder) run(ctx context.Context, workDir, program string, args ...string) (bool, error) {
	if b.opts.PrintOnly {
		b.logger.Info("would run",
			slog.String("program", program),
			slog.String("args", strings.Join(args, " ")))
		return true, nil
	}
	result, err := toolrun.InDir(b.opts.Runner, workDir).Run(ctx, program, args)
	if err != nil {
		return false, fmt.Errorf("run %s: %w", program, err)
	}
	if result.ExitCode != 0 {
		b.logger.Debug("tool exited nonzero",
			slog.String("program", program),
			slog.Int("exit_code", result.ExitCode))
		return false, nil
	}
	return true, nil
}

func (b *Builder) destinationDirectory(name string) (string, error) {
	supplier, typeface := "public", "misc"
	if b.opts.Fonts != nil {
		if s, t, ok := b.opts.Fonts.FontInfo(name); ok {
			supplier, typeface = s, t
		}
	}

	dir := expandTemplate(b.opts.DestDirTemplate, supplier, typeface)
	if b.opts.PrintOnly {
		return dir, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create destination directory: %w", err)
	}
	return dir, nil
}

func expandTemplate(tmpl, supplier, typeface string) string {
	var out strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' || i+1 == len(tmpl) {
			out.WriteByte(tmpl[i])
			continue
		}
		i++
		switch tmpl[i] {
		case '%':
			out.WriteByte('%')
		case 's':
			out.WriteString(supplier)
		case 't':
			out.WriteString(typeface)
		}
	}
	return out.String()
}

func (b *Builder) install(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read built TFM: %w", err)
	}
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("stage TFM: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("install TFM: %w", err)
	}
	return nil
}
