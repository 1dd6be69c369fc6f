package planner

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

// maxExecutionOrderEntries is "the first ten entries of the execution
// order" named by §7's explanation-string contract.
const maxExecutionOrderEntries = 10

// explain renders the stable, test-anchorable summary required by §7:
// a level-2 "Planning Decision" heading followed by exactly the three
// named sub-headings, in order.
func explain(immediateBatch []string, recommended *model.PlanPath, order []string) string {
	var b strings.Builder
	b.WriteString("## Planning Decision\n\n")

	fmt.Fprintf(&b, "### Immediate Batch (%s)\n\n", humanize.Plural(len(immediateBatch), "task", ""))
	if len(immediateBatch) == 0 {
		b.WriteString("No tasks are ready to dispatch.\n\n")
	} else {
		for _, id := range immediateBatch {
			fmt.Fprintf(&b, "- %s\n", id)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Recommended Path\n\n")
	if recommended == nil {
		b.WriteString("No recommended path: the Pareto set is empty.\n\n")
	} else {
		fmt.Fprintf(&b, "- total hours: %s\n", humanize.Plural(recommended.TotalHours, "hour", ""))
		fmt.Fprintf(&b, "- speed: %.1f, coverage: %.1f, urgency: %.1f\n", recommended.SpeedScore, recommended.CoverageScore, recommended.UrgencyScore)
		fmt.Fprintf(&b, "- goals completed: %d, goals partial: %d\n\n", len(recommended.GoalsCompleted), len(recommended.GoalsPartial))
	}

	b.WriteString("### Execution Order\n\n")
	if len(order) == 0 {
		b.WriteString("(empty)\n")
	} else {
		n := len(order)
		if n > maxExecutionOrderEntries {
			n = maxExecutionOrderEntries
		}
		for i, id := range order[:n] {
			fmt.Fprintf(&b, "%d. %s\n", i+1, id)
		}
	}

	return b.String()
}

// explainInfeasible renders the §7 ScheduleInfeasible explanation: a
// well-formed summary naming the cause, with every section present but
// empty.
func explainInfeasible() string {
	var b strings.Builder
	b.WriteString("## Planning Decision\n\n")
	b.WriteString("### Immediate Batch (0 tasks)\n\n")
	b.WriteString("No tasks are ready to dispatch.\n\n")
	b.WriteString("### Recommended Path\n\n")
	b.WriteString("Schedule infeasible: the solver produced no candidate within its budget.\n\n")
	b.WriteString("### Execution Order\n\n")
	b.WriteString("(empty)\n")
	return b.String()
}
