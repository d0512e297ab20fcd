package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakeroad/sparktel/internal/canonical"
	"github.com/lakeroad/sparktel/pkg/domain"
)

var canonicalizeRequireRoot bool

var canonicalizeCmd = &cobra.Command{
	Use:   "canonicalize <plan.json>",
	Short: "Canonicalize a JSON-encoded query plan",
	Long: `Canonicalize reads a JSON-encoded plan tree and prints the
deterministic document form the connector would emit as a SPARK_PLAN
event, plus whether the plan touches the backend.

Examples:
  sparktel canonicalize plan.json
  sparktel canonicalize --require-root plan.json   # gate on ReturnAnswer`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return fail(runCanonicalize(args[0]))
	},
}

func init() {
	canonicalizeCmd.Flags().BoolVar(&canonicalizeRequireRoot, "require-root", false,
		"produce output only for a terminal whole-query root, like the connector does")
}

func runCanonicalize(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan domain.PlanNode
	if err := json.Unmarshal(data, &plan); err != nil {
		return fmt.Errorf("failed to parse plan file: %w", err)
	}

	var backendRelevant bool
	var doc domain.Document
	if canonicalizeRequireRoot {
		var ok bool
		backendRelevant, doc, ok = canonical.Root(&plan)
		if !ok {
			fmt.Fprintf(os.Stderr, "plan root %q is not %q; no event would be emitted\n",
				plan.Name, domain.RootNodeName)
			return nil
		}
	} else {
		backendRelevant, doc = canonical.Plan(&plan)
	}

	out := domain.Object(
		domain.F("backendRelevant", domain.Bool(backendRelevant)),
		domain.F("plan", doc),
	)
	fmt.Println(out.String())
	return nil
}
