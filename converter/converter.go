package converter

import (
	"context"
	"fmt"
	"os"

	"github.com/dendrascience/pbix-converter/archive"
	"github.com/dendrascience/pbix-converter/layout"
	"go.uber.org/zap"
)

// LayoutMember is the report layout inside a package.
const LayoutMember = "Report/Layout"

// State is a step of the conversion pipeline.
type State int

const (
	StateStart State = iota
	StateExtracted
	StatePruned
	StateTransformed
	StatePackaged
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateExtracted:
		return "extracted"
	case StatePruned:
		return "pruned"
	case StateTransformed:
		return "transformed"
	case StatePackaged:
		return "packaged"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a conversion. Nil Rules and Writer select
// layout.DefaultRules and archive.DefaultWriterConfig; an empty Output
// selects DefaultOutputPath.
type Options struct {
	Input   string
	Output  string
	TempDir string
	Rules   *layout.Rules
	Writer  *archive.WriterConfig
	Logger  *zap.Logger
}

// Result describes a finished or failed conversion. State is StateDone on
// success and StateFailed otherwise; Reached is the last step completed.
type Result struct {
	State                   State
	Reached                 State
	Output                  string
	Members                 int
	SecurityBindingsRemoved bool
	Layout                  layout.Report
}

// Convert rewrites the package at opts.Input into opts.Output. The staging
// workspace is removed on every return path, and no output file is left
// behind unless the conversion succeeds.
func Convert(ctx context.Context, opts Options) (res Result, err error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rules := layout.DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	writer := archive.DefaultWriterConfig()
	if opts.Writer != nil {
		writer = *opts.Writer
	}
	res.Output = opts.Output
	if res.Output == "" {
		res.Output = DefaultOutputPath(opts.Input, false)
	}

	res.State = StateStart
	defer func() {
		if err != nil {
			res.State = StateFailed
			log.Error("conversion failed", zap.Stringer("reached", res.Reached), zap.Error(err))
		}
	}()

	if err = rules.Validate(); err != nil {
		return res, err
	}
	if samePath(opts.Input, res.Output) {
		return res, fmt.Errorf("%w: output %q would overwrite the input", ErrInvalidInput, res.Output)
	}

	ws, err := NewWorkspace(opts.TempDir)
	if err != nil {
		return res, err
	}
	log.Debug("created workspace", zap.String("dir", ws.Dir))
	defer func() {
		dir := ws.Dir
		if cerr := ws.Close(); cerr != nil {
			log.Warn("failed to remove workspace", zap.String("dir", dir), zap.Error(cerr))
			return
		}
		log.Debug("removed workspace", zap.String("dir", dir))
	}()

	advance := func(next State) {
		res.State = next
		res.Reached = next
	}

	if err = ctx.Err(); err != nil {
		return res, err
	}
	n, err := archive.Extract(opts.Input, ws.Dir)
	if err != nil {
		return res, err
	}
	advance(StateExtracted)
	log.Info("extracted package", zap.String("input", opts.Input), zap.Int("files", n))

	layoutPath := ws.Path(LayoutMember)
	if info, statErr := os.Stat(layoutPath); statErr != nil || !info.Mode().IsRegular() {
		err = fmt.Errorf("%w: %s", ErrMissingMember, LayoutMember)
		return res, err
	}

	if err = ctx.Err(); err != nil {
		return res, err
	}
	res.SecurityBindingsRemoved, err = archive.Prune(ws.Dir, archive.SecurityBindings)
	if err != nil {
		return res, fmt.Errorf("remove %s: %w", archive.SecurityBindings, err)
	}
	advance(StatePruned)
	if res.SecurityBindingsRemoved {
		log.Info("removed member", zap.String("member", archive.SecurityBindings))
	} else {
		log.Warn("member not found, nothing to remove", zap.String("member", archive.SecurityBindings))
	}

	if err = ctx.Err(); err != nil {
		return res, err
	}
	if res.Layout, err = rewriteLayout(layoutPath, rules); err != nil {
		return res, err
	}
	advance(StateTransformed)
	log.Info("rewrote layout",
		zap.Int("containers", res.Layout.Containers),
		zap.Int("converted", res.Layout.Converted),
		zap.Int("renamed", res.Layout.Renamed),
		zap.Int("duplicated", res.Layout.Duplicated),
		zap.Int("opaque", res.Layout.Opaque),
		zap.Bool("registered", res.Layout.Registered))

	if err = ctx.Err(); err != nil {
		return res, err
	}
	if res.Members, err = archive.Pack(ws.Dir, res.Output, writer); err != nil {
		return res, err
	}
	advance(StatePackaged)
	log.Info("wrote package", zap.String("output", res.Output), zap.Int("members", res.Members))

	advance(StateDone)
	return res, nil
}

// rewriteLayout keeps a backup of the layout member beside it, then
// replaces the member with its rewritten form.
func rewriteLayout(path string, rules layout.Rules) (layout.Report, error) {
	original, err := os.ReadFile(path)
	if err != nil {
		return layout.Report{}, err
	}
	if err := os.WriteFile(path+archive.BackupSuffix, original, 0o644); err != nil {
		return layout.Report{}, fmt.Errorf("back up layout: %w", err)
	}
	rewritten, rep, err := layout.Rewrite(original, rules)
	if err != nil {
		return rep, err
	}
	return rep, os.WriteFile(path, rewritten, 0o644)
}

// ExtractOnly writes the raw members of the package at src into dir,
// creating dir if needed, without changing anything.
func ExtractOnly(src, dir string, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	n, err := archive.Extract(src, dir)
	if err != nil {
		log.Error("extraction failed", zap.String("input", src), zap.Error(err))
		return n, err
	}
	log.Info("extracted package", zap.String("input", src), zap.String("dir", dir), zap.Int("files", n))
	return n, nil
}
