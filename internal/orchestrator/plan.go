package orchestrator

import (
	"context"
	"strings"
)

// step is one command of a sequence that must run in order.
type step struct {
	Label   string
	Command string
}

type planState int

const (
	planNotRequired planState = iota // no command to run
	planSkipped                      // skipInstall: nothing was run
	planDone                         // every step succeeded
	planFailed                       // stopped at the first failing step
)

// planOutcome is the result of runPlan. Remaining holds the failed step and
// every step after it, or all steps when the plan was skipped.
type planOutcome struct {
	State     planState
	Failed    *step
	Output    string
	Remaining []step
}

// runPlan executes steps in dir, stopping at the first failure. Steps with an
// empty command are dropped first.
func (r *run) runPlan(ctx context.Context, skip bool, steps ...step) planOutcome {
	var todo []step
	for _, s := range steps {
		if strings.TrimSpace(s.Command) != "" {
			todo = append(todo, s)
		}
	}
	if len(todo) == 0 {
		return planOutcome{State: planNotRequired}
	}
	if skip {
		return planOutcome{State: planSkipped, Remaining: todo}
	}

	for i, s := range todo {
		res := r.exec.Execute(ctx, s.Command, r.root, s.Label)
		r.report.Command(res.Success, s.Label, s.Command)
		if !res.Success {
			failed := todo[i]
			return planOutcome{State: planFailed, Failed: &failed, Output: res.Output, Remaining: todo[i:]}
		}
	}
	return planOutcome{State: planDone}
}

// describe folds the outcome into the report: skipped and failed plans
// degrade it to partial and list the remaining commands as next steps.
func (p planOutcome) describe(r *Report, installCmd string) {
	switch p.State {
	case planSkipped:
		r.Degrade(StatusPartial)
		r.Note("commands not run because skipInstall is set")
		r.Next("Install dependencies: %s", installCmd)
		for _, s := range p.Remaining {
			r.Next("%s: %s", s.Label, s.Command)
		}
	case planFailed:
		r.Degrade(StatusPartial)
		r.Note("%s failed: %s", p.Failed.Label, lastLines(p.Output, 5))
		for _, s := range p.Remaining {
			r.Next("%s: %s", s.Label, s.Command)
		}
	}
}

// lastLines returns at most n trailing non-empty lines of output, joined
// with " | " so they fit one report line.
func lastLines(output string, n int) string {
	var lines []string
	for _, l := range strings.Split(output, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return "no output"
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
