package gitgen

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultIntensity is how many commits land on each painted day.
	// GitHub buckets daily counts into shades, so ten commits reads as
	// a solidly dark cell against an otherwise quiet year.
	DefaultIntensity = 10

	DefaultMessagePrefix = "contribmatrix"
	DefaultRemote        = "origin"
	DefaultBranch        = "main"
)

// GeneratorOpt is an option for a Generator.
type GeneratorOpt func(*Generator)

// WithRunner swaps the subprocess runner, mostly for tests.
func WithRunner(r Runner) GeneratorOpt {
	return func(g *Generator) {
		g.git = r
	}
}

func WithLogger(log *zap.Logger) GeneratorOpt {
	return func(g *Generator) {
		g.log = log
	}
}

// WithIntensity sets the number of commits per painted pixel. Values
// below one clamp to one.
func WithIntensity(n int) GeneratorOpt {
	return func(g *Generator) {
		if n < 1 {
			n = 1
		}
		g.intensity = n
	}
}

// WithMessagePrefix sets the leading token of every commit message.
func WithMessagePrefix(prefix string) GeneratorOpt {
	return func(g *Generator) {
		if prefix != "" {
			g.prefix = prefix
		}
	}
}

// WithAuthor overrides the committer identity via the environment, so
// the repository's own config stays untouched.
func WithAuthor(name, email string) GeneratorOpt {
	return func(g *Generator) {
		g.authorName, g.authorEmail = name, email
	}
}

// WithDryRun prints every planned invocation instead of running it.
func WithDryRun() GeneratorOpt {
	return func(g *Generator) {
		g.dryRun = true
	}
}

// WithPush force-pushes the branch when generation finishes.
func WithPush(remote, branch string) GeneratorOpt {
	return func(g *Generator) {
		g.push = true
		if remote != "" {
			g.remote = remote
		}
		if branch != "" {
			g.branch = branch
		}
	}
}

// Generator turns a Plan into empty commits whose author and committer
// dates are back-dated to the planned days.
type Generator struct {
	out         io.Writer
	git         Runner
	log         *zap.Logger
	intensity   int
	prefix      string
	authorName  string
	authorEmail string
	dryRun      bool
	push        bool
	remote      string
	branch      string
}

func NewGenerator(out io.Writer, opts ...GeneratorOpt) *Generator {
	g := Generator{
		out:       out,
		git:       &ExecRunner{},
		log:       zap.NewNop(),
		intensity: DefaultIntensity,
		prefix:    DefaultMessagePrefix,
		remote:    DefaultRemote,
		branch:    DefaultBranch,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return &g
}

/*
Generate walks the plan in order: confirm we are inside a git work tree,
warn if the repository already has history, print the planned date range,
then lay down intensity commits per painted pixel. A dry run performs the
same repository checks but prints each commit instead of creating it.
*/
func (g *Generator) Generate(ctx context.Context, plan Plan) error {
	if err := g.ensureRepo(ctx); err != nil {
		return err
	}
	g.warnExistingHistory(ctx)
	g.preview(plan)

	lastFrame := -1
	for _, e := range plan.Entries {
		if e.Frame != lastFrame {
			lastFrame = e.Frame
			g.log.Info("generating frame",
				zap.Int("frame", e.Frame+1),
				zap.Int("of", plan.Frames),
			)
		}
		if err := g.commitEntry(ctx, e); err != nil {
			return err
		}
	}

	if g.push {
		return g.pushBranch(ctx)
	}
	return nil
}

func (g *Generator) ensureRepo(ctx context.Context) error {
	if _, err := g.git.Output(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		return fmt.Errorf("not inside a git repository (run `git init` first): %w", err)
	}
	return nil
}

func (g *Generator) warnExistingHistory(ctx context.Context) {
	out, err := g.git.Output(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		// A freshly initialized repository has no HEAD yet. That is
		// exactly the state we want, so nothing to warn about.
		return
	}
	n, err := strconv.Atoi(out)
	if err != nil || n == 0 {
		return
	}
	fmt.Fprintf(g.out, "WARNING: repository already has %d commits; use a fresh repository so the calendar stays clean\n", n)
	g.log.Warn("repository has existing history", zap.Int("commits", n))
}

func (g *Generator) preview(plan Plan) {
	min, max, ok := plan.Range()
	if !ok {
		fmt.Fprintln(g.out, "Planned commit date range: (no painted pixels)")
		return
	}
	fmt.Fprintf(g.out, "Planned commit date range: %s to %s\n",
		min.Format("2006-01-02"), max.Format("2006-01-02"))
}

func (g *Generator) commitEntry(ctx context.Context, e Entry) error {
	stamp := e.Date.Format("2006-01-02 15:04:05")
	env := []string{
		"GIT_AUTHOR_DATE=" + stamp,
		"GIT_COMMITTER_DATE=" + stamp,
	}
	if g.authorName != "" {
		env = append(env,
			"GIT_AUTHOR_NAME="+g.authorName,
			"GIT_COMMITTER_NAME="+g.authorName,
		)
	}
	if g.authorEmail != "" {
		env = append(env,
			"GIT_AUTHOR_EMAIL="+g.authorEmail,
			"GIT_COMMITTER_EMAIL="+g.authorEmail,
		)
	}

	for i := 0; i < g.intensity; i++ {
		msg := fmt.Sprintf("%s F%d W%d D%d %d/%d",
			g.prefix, e.Frame+1, e.Week+1, e.Day+1, i+1, g.intensity)
		args := []string{"commit", "--allow-empty", "-m", msg}
		if g.dryRun {
			fmt.Fprintf(g.out, "DRY-RUN: %s: git %s\n", stamp, strings.Join(args, " "))
			continue
		}
		if err := g.git.Run(ctx, env, args...); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) pushBranch(ctx context.Context) error {
	if g.dryRun {
		fmt.Fprintf(g.out, "DRY-RUN: git push -u %s %s --force\n", g.remote, g.branch)
		return nil
	}
	fmt.Fprintf(g.out, "Pushing %s to %s (force)\n", g.branch, g.remote)
	return g.git.Run(ctx, nil, "push", "-u", g.remote, g.branch, "--force")
}
