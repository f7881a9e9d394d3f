// Package site implements the build pipeline: discover top-level pages,
// render each in isolation, and populate the destination directory with the
// rendered HTML, a verbatim copy of the assets subtree, and the configured
// fixed root-level files.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/templates"
)

// Builder transforms a source directory of templates and assets into a
// destination directory of static HTML. Runs are independent and idempotent:
// identical input produces a byte-identical destination.
type Builder struct {
	cfg       *config.Config
	sourceDir string
	destDir   string
	recorder  metrics.Recorder
	// optional per-page progress callback (not exported)
	onPageWritten func(page templates.Page)
}

// NewBuilder creates a Builder for one source/destination pair.
func NewBuilder(cfg *config.Config, sourceDir, destDir string) *Builder {
	return &Builder{
		cfg:       cfg,
		sourceDir: filepath.Clean(sourceDir),
		destDir:   filepath.Clean(destDir),
		recorder:  metrics.NoopRecorder{},
	}
}

// SetRecorder injects a metrics recorder (fluent for builder-style chaining).
func (b *Builder) SetRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// OnPageWritten registers a callback invoked after each page is written,
// used by the CLI for per-file progress lines.
func (b *Builder) OnPageWritten(fn func(page templates.Page)) *Builder {
	b.onPageWritten = fn
	return b
}

// Build runs the full pipeline and returns the run report. On error the
// report is still returned with whatever stages completed.
//
// Every page renders to memory before the destination is cleaned, so a
// render failure leaves the previous destination untouched. A write failure
// mid-population can still leave a partial destination; the next successful
// run fully regenerates it.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	report := newReport(b.sourceDir, b.destDir)
	bs := &buildState{builder: b, report: report}

	slog.Info("Starting site build",
		"run_id", report.RunID,
		"source", b.sourceDir,
		"output", b.destDir)

	err := runStages(ctx, bs, b.recorder, []namedStage{
		{"check_source", stageCheckSource},
		{"load_partials", stageLoadPartials},
		{"discover_pages", stageDiscoverPages},
		{"render_pages", stageRenderPages},
		{"clean_output", stageCleanOutput},
		{"write_pages", stageWritePages},
		{"copy_assets", stageCopyAssets},
		{"copy_root_files", stageCopyRootFiles},
	})

	report.End = time.Now()
	b.recorder.ObserveBuildDuration(report.Duration())

	switch {
	case err == nil:
		report.Outcome = OutcomeSuccess
	case isCanceled(err):
		report.Outcome = OutcomeCanceled
	default:
		report.Outcome = OutcomeFailed
	}
	b.recorder.IncBuildOutcome(string(report.Outcome))

	if err != nil {
		return report, err
	}

	slog.Info("Site build completed",
		"run_id", report.RunID,
		"pages", report.Pages,
		"assets", report.AssetsCopied,
		"duration", report.Duration())
	return report, nil
}

func isCanceled(err error) bool {
	se, ok := err.(*StageError)
	return ok && se.Kind == StageErrorCanceled
}

// stageCheckSource verifies the source root before any destination mutation.
func stageCheckSource(_ context.Context, bs *buildState) error {
	info, err := os.Stat(bs.builder.sourceDir)
	if os.IsNotExist(err) {
		return siteerrors.SourceMissing(bs.builder.sourceDir)
	}
	if err != nil {
		return siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal, "stat source directory")
	}
	if !info.IsDir() {
		return siteerrors.SourceMissing(bs.builder.sourceDir).WithContext("reason", "not a directory")
	}
	return nil
}

// stageLoadPartials computes the closed partial set from the partials directory.
func stageLoadPartials(_ context.Context, bs *buildState) error {
	cfg := bs.builder.cfg
	partialsDir := filepath.Join(bs.builder.sourceDir, cfg.Source.PartialsDir)

	partials, err := templates.LoadPartials(partialsDir, cfg.Source.TemplateExt)
	if err != nil {
		return siteerrors.RenderFailed(cfg.Source.PartialsDir, err)
	}
	bs.partials = partials
	slog.Debug("Partials loaded", "count", partials.Len(), "ids", partials.IDs())

	bs.renderer = templates.NewRenderer(
		partials,
		templates.SiteMeta{Title: cfg.Site.Title, BaseURL: cfg.Site.BaseURL},
		cfg.Site.Vars,
		templates.PartialID(cfg.Source.DefaultLayout),
	)
	return nil
}

// stageDiscoverPages enumerates the top-level pages of the source root.
// Two pages sharing a stem (about.tmpl and about.md) would map to the same
// output file; that is rejected here so neither page is silently dropped.
func stageDiscoverPages(_ context.Context, bs *buildState) error {
	pages, err := templates.DiscoverPages(bs.builder.sourceDir, bs.builder.cfg.Source.TemplateExt)
	if err != nil {
		return siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal, "list source directory")
	}

	byOutput := make(map[string]string, len(pages))
	for _, page := range pages {
		if prev, ok := byOutput[page.OutputName]; ok {
			return siteerrors.New(siteerrors.CategoryValidation, siteerrors.SeverityFatal,
				fmt.Sprintf("pages %s and %s both map to %s", prev, page.FileName, page.OutputName)).
				WithContext("output", page.OutputName)
		}
		byOutput[page.OutputName] = page.FileName
	}

	bs.pages = pages
	slog.Info("Pages discovered", "count", len(pages))
	return nil
}

// stageRenderPages renders every page to memory. The destination is not
// touched yet: a failure here aborts the run with the previous output intact.
func stageRenderPages(ctx context.Context, bs *buildState) error {
	bs.rendered = make(map[string]string, len(bs.pages))
	for _, page := range bs.pages {
		select {
		case <-ctx.Done():
			return newCanceledStageError("render_pages", ctx.Err())
		default:
		}

		out, err := bs.renderer.RenderPage(page)
		if err != nil {
			return err
		}
		bs.rendered[page.OutputName] = out
		slog.Debug("Page rendered", "page", page.FileName, "output", page.OutputName, "bytes", len(out))
	}
	return nil
}

// stageCleanOutput fully regenerates the destination: remove whatever a
// previous run left and recreate the directory.
func stageCleanOutput(_ context.Context, bs *buildState) error {
	dest := bs.builder.destDir
	if err := os.RemoveAll(dest); err != nil {
		return siteerrors.CleanFailed(dest, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return siteerrors.WriteFailed(dest, err)
	}
	return nil
}

// stageWritePages writes the buffered renders, one HTML file per page.
func stageWritePages(_ context.Context, bs *buildState) error {
	for _, page := range bs.pages {
		outPath := filepath.Join(bs.builder.destDir, page.OutputName)
		if err := os.WriteFile(outPath, []byte(bs.rendered[page.OutputName]), 0o644); err != nil {
			return siteerrors.WriteFailed(outPath, err)
		}
		if bs.builder.onPageWritten != nil {
			bs.builder.onPageWritten(page)
		}
	}
	bs.report.Pages = len(bs.pages)
	bs.builder.recorder.AddPagesRendered(len(bs.pages))
	return nil
}

// stageCopyAssets mirrors source/assets into dest/assets byte for byte.
// An absent assets directory is a no-op, not an error.
func stageCopyAssets(_ context.Context, bs *buildState) error {
	assetsDir := bs.builder.cfg.Source.AssetsDir
	src := filepath.Join(bs.builder.sourceDir, assetsDir)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	dst := filepath.Join(bs.builder.destDir, assetsDir)
	copied, err := copyDir(src, dst)
	if err != nil {
		return siteerrors.CopyFailed(src, dst, err)
	}
	bs.report.AssetsCopied = copied
	slog.Debug("Assets copied", "files", copied)
	return nil
}

// stageCopyRootFiles copies the enumerated fixed root-level files (icons and
// similar) by exact name; missing ones are skipped without error.
func stageCopyRootFiles(_ context.Context, bs *buildState) error {
	for _, name := range bs.builder.cfg.Source.RootFiles {
		src := filepath.Join(bs.builder.sourceDir, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(bs.builder.destDir, name)
		if err := copyFile(src, dst); err != nil {
			return siteerrors.CopyFailed(src, dst, err)
		}
		bs.report.RootFilesCopied++
	}
	return nil
}
