package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/chazu/yailc/pkg/ast"
	"github.com/chazu/yailc/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds Generate when no limit is given.
const DefaultConcurrency = 8

// Result contains the emitted YAIL and what could not be emitted.
type Result struct {
	Code     string
	Forms    []Form
	Warnings []string
	Skipped  []SkippedBlock
}

// Form is one emitted top-level form.
type Form struct {
	BlockID string
	Text    string
}

// SkippedBlock records a top-level block that couldn't be emitted.
type SkippedBlock struct {
	BlockID string
	Kind    ast.Kind
	Reason  string
	Err     error
}

// Generate emits every top-level event handler of ws, at most limit at a
// time, keeping workspace order in the result. A block that fails is
// recorded in Skipped and does not stop the others; the returned error is
// only set when ctx is done.
func Generate(ctx context.Context, e *Emitter, ws *ast.Workspace, limit int) (*Result, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	type slot struct {
		out  Output
		err  error
		skip string
	}
	slots := make([]slot, len(ws.Blocks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, b := range ws.Blocks {
		switch {
		case b.Disabled():
			slots[i].skip = fmt.Sprintf("block %s is disabled", b.ID())
			continue
		case b.Kind() != ast.KindEvent:
			slots[i].skip = fmt.Sprintf("block %s (%s) is not inside an event handler", b.ID(), b.Kind())
			continue
		}
		i, b := i, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slots[i].out, slots[i].err = e.Emit(b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Warnings: []string{},
		Skipped:  []SkippedBlock{},
	}
	texts := make([]string, 0, len(slots))
	for i, s := range slots {
		b := ws.Blocks[i]
		switch {
		case s.skip != "":
			res.Warnings = append(res.Warnings, s.skip)
		case s.err != nil:
			res.Skipped = append(res.Skipped, SkippedBlock{
				BlockID: b.ID(),
				Kind:    b.Kind(),
				Reason:  s.err.Error(),
				Err:     s.err,
			})
		default:
			res.Forms = append(res.Forms, Form{BlockID: b.ID(), Text: s.out.Text})
			texts = append(texts, s.out.Text)
		}
	}
	if len(texts) > 0 {
		res.Code = strings.Join(texts, "\n\n") + "\n"
	}

	e.log.Info("workspace generated",
		logger.Int("blocks", len(ws.Blocks)),
		logger.Int("forms", len(res.Forms)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Int("warnings", len(res.Warnings)))
	return res, nil
}
