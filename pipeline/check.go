package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/typegen"
)

// Check regenerates every target into a temporary directory and compares
// the result with the committed trees under EmitDir. Generation timestamps
// are ignored.
func (p *Pipeline) Check(ctx context.Context) (*typegen.CheckResult, *Report, error) {
	tmp, err := os.MkdirTemp(p.opts.ScratchDir, "bspecgen-check-*")
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tmp)

	opts := p.opts
	opts.PackageDir = filepath.Join(tmp, "package")
	opts.EmitDir = filepath.Join(tmp, "emit")
	opts.Package.KeepTree = false

	fresh := New(opts, p.registry, p.reporter, p.logger)
	report := fresh.Run(ctx)
	if report.State == StateFailed {
		return nil, report, report.Err
	}
	if report.Failed() > 0 {
		return nil, report, errors.Newf("%d of %d targets failed to generate", report.Failed(), len(report.Targets))
	}

	result, err := typegen.Compare(opts.EmitDir, p.opts.EmitDir, opts.Targets)
	if err != nil {
		return nil, report, err
	}
	p.logger.Infow("Compared generated trees", "up_to_date", result.UpToDate, "stale_targets", len(result.Differences))
	return result, report, nil
}
