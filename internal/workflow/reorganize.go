package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/teemow/gtasks-mcp/internal/logging"
	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// MovePlan is one planned prefix-routed transfer.
type MovePlan struct {
	Task                  tasks.Task
	Prefix                string
	DestinationTaskListID string
	DestinationTitle      string
}

// MoveFailure is a planned transfer that could not be carried out.
type MoveFailure struct {
	Plan MovePlan
	Err  error
}

// ReorganizeReport summarizes a reorganize run. Partial transfers count as
// succeeded and also produce a warning.
type ReorganizeReport struct {
	DryRun    bool
	Planned   []MovePlan
	Moved     []TransferResult
	Failures  []MoveFailure
	Warnings  []string
	Skipped   []SkippedList
	Succeeded int
	Failed    int
}

// String renders a summary line followed by one line per planned move,
// failure and warning.
func (r *ReorganizeReport) String() string {
	var b strings.Builder
	if r.DryRun {
		fmt.Fprintf(&b, "Dry run: %d task(s) would be moved\n", len(r.Planned))
		for _, p := range r.Planned {
			fmt.Fprintf(&b, "- %q (%s) from %q to %q via [%s]\n",
				p.Task.Title, p.Task.ID, p.Task.TaskListTitle, p.DestinationTitle, p.Prefix)
		}
	} else {
		fmt.Fprintf(&b, "Reorganized tasks: %d succeeded, %d failed\n", r.Succeeded, r.Failed)
		for _, m := range r.Moved {
			fmt.Fprintf(&b, "- moved %q to %s (new id %s)\n", m.Title, m.DestinationTaskListID, m.NewTaskID)
		}
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "- failed %q (%s): %v\n", f.Plan.Task.Title, f.Plan.Task.ID, f.Err)
		}
	}
	if len(r.Planned) == 0 {
		b.WriteString("No tasks matched the prefix mappings\n")
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}
	for _, sk := range r.Skipped {
		fmt.Fprintf(&b, "Warning: task list %s was skipped: %v\n", sk.TaskListID, sk.Err)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Reorganize moves every task whose title starts with "[PREFIX]" to the
// task list its prefix maps to. In dry-run mode it only plans.
func (s *Service) Reorganize(ctx context.Context, cmd ReorganizeCommand) (*ReorganizeReport, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	logger := s.logger.With(logging.Operation("tasks.reorganize"), logging.DryRun(cmd.DryRun))

	enum, err := s.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	plans, warnings := PlanMoves(enum.Lists, enum.Tasks, cmd.Mappings)
	report := &ReorganizeReport{
		DryRun:   cmd.DryRun,
		Planned:  plans,
		Warnings: warnings,
		Skipped:  enum.Skipped,
	}
	logger.Info("reorganize planned", logging.Count(len(plans)))
	if cmd.DryRun {
		return report, nil
	}

	for _, plan := range plans {
		res, err := s.Transfer(ctx, plan.Task.TaskListID, plan.DestinationTaskListID, plan.Task.ID)
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, MoveFailure{Plan: plan, Err: err})
			continue
		}
		report.Succeeded++
		report.Moved = append(report.Moved, *res)
		if res.Partial {
			report.Warnings = append(report.Warnings, res.String())
		}
	}

	logger.Info("reorganize finished",
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed))
	return report, nil
}

// PlanMoves matches task titles against mappings in order. The first
// mapping whose "[prefix]" starts the title decides the destination. A
// destination title is looked up exactly first and then case- and
// whitespace-insensitively. Unresolvable destinations produce a warning
// and the task is not tried against later mappings. Tasks already in
// their destination are skipped silently.
func PlanMoves(lists []tasks.TaskList, items []tasks.Task, mappings []PrefixMapping) ([]MovePlan, []string) {
	exact := make(map[string]tasks.TaskList, len(lists))
	normalized := make(map[string]tasks.TaskList, len(lists))
	for _, l := range lists {
		if _, ok := exact[l.Title]; !ok {
			exact[l.Title] = l
		}
		key := normalizeTitle(l.Title)
		if _, ok := normalized[key]; !ok {
			normalized[key] = l
		}
	}

	var plans []MovePlan
	var warnings []string
	for _, t := range items {
		if t.Title == "" || t.ID == "" || t.TaskListID == "" {
			continue
		}
		for _, m := range mappings {
			if !strings.HasPrefix(t.Title, "["+m.Prefix+"]") {
				continue
			}
			dest, ok := exact[m.TaskList]
			if !ok {
				dest, ok = normalized[normalizeTitle(m.TaskList)]
			}
			if !ok {
				warnings = append(warnings, fmt.Sprintf("no task list titled %q for prefix [%s]; skipped %q",
					m.TaskList, m.Prefix, t.Title))
				break
			}
			if dest.ID == t.TaskListID {
				break
			}
			plans = append(plans, MovePlan{
				Task:                  t,
				Prefix:                m.Prefix,
				DestinationTaskListID: dest.ID,
				DestinationTitle:      dest.Title,
			})
			break
		}
	}
	return plans, warnings
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParsePrefixMappingsYAML reads prefix mappings from YAML. Both an ordered
// mapping ("ADMIN: Admin") and a sequence of {prefix, taskList} entries are
// accepted; document order is kept either way.
func ParsePrefixMappingsYAML(data []byte) ([]PrefixMapping, error) {
	var seq []PrefixMapping
	if err := yaml.Unmarshal(data, &seq); err == nil && len(seq) > 0 {
		return seq, nil
	}

	var ms yaml.MapSlice
	if err := yaml.Unmarshal(data, &ms); err != nil {
		return nil, fmt.Errorf("failed to parse prefix mappings: %w", err)
	}

	mappings := make([]PrefixMapping, 0, len(ms))
	for _, item := range ms {
		prefix, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("prefix %v must be a string", item.Key)
		}
		list, ok := item.Value.(string)
		if !ok {
			return nil, fmt.Errorf("task list for prefix %q must be a string", prefix)
		}
		mappings = append(mappings, PrefixMapping{Prefix: prefix, TaskList: list})
	}
	return mappings, nil
}
