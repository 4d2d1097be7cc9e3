package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cmaptree/pkg/cmap"
	"github.com/matzehuels/cmaptree/pkg/errors"
	pkgio "github.com/matzehuels/cmaptree/pkg/io"
)

// rootsCommand creates the roots command, which shows the concepts a tree
// could be rooted at and the one chosen automatically.
func (c *CLI) rootsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roots <map.cxl|map.json>",
		Short: "List root candidates of a concept map",
		Long: `List the root candidates of a concept map: concepts that no connection
points to. The candidate marked as suggested is the root convert uses when
no --root is given. When every concept is a connection target, all
concepts are listed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoots(args[0])
		},
	}
}

func (c *CLI) runRoots(input string) error {
	m, err := pkgio.Import(input)
	if err != nil {
		return err
	}

	choices, sel, err := rootChoices(m)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEmptyMap, err, "%s", input)
	}
	c.Logger.Debug("root candidates", "count", len(sel.Candidates), "reason", sel.Reason)

	rows := make([][]string, len(choices))
	for i, ch := range choices {
		rows[i] = choiceRow("", ch)
	}
	t := choiceTable(rows, func(row int) (bool, bool) {
		return false, row < len(choices) && choices[row].Suggested
	})
	fmt.Fprintln(stdout, t.Render())

	label := sel.ID
	for _, ch := range choices {
		if ch.Suggested {
			label = ch.Concept.Label
		}
	}
	printKeyValue("Root", fmt.Sprintf("%s (%s)", label, sel.ID))
	printKeyValue("Reason", describeReason(sel.Reason, len(sel.Candidates)))
	printNextStep("Convert with another root", fmt.Sprintf("%s convert -r <id> %s", appName, input))
	return nil
}

// describeReason explains a root choice in words.
func describeReason(r cmap.Reason, candidates int) string {
	switch r {
	case cmap.ReasonRequested:
		return "requested"
	case cmap.ReasonSingleCandidate:
		return "only concept without incoming connections"
	case cmap.ReasonNameMatch:
		return fmt.Sprintf("label names a root among %d candidates", candidates)
	case cmap.ReasonFirstCandidate:
		return fmt.Sprintf("first of %d candidates", candidates)
	case cmap.ReasonFirstConcept:
		return "no candidates, first concept"
	}
	return string(r)
}
