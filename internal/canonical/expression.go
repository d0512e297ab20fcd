// Package canonical converts planner plan and expression trees into
// deterministic Documents suitable for telemetry emission and for
// equality-based testing.
package canonical

import (
	"sort"

	"github.com/lakeroad/sparktel/pkg/domain"
)

// Expression converts an expression tree into its canonical Document.
// Leaves become {source, type}; inner nodes become {operator, parameters}.
// For the commutative operators And and Or, parameters are sorted by their
// serialized form: the upstream planner presents their operands in
// nondeterministic order, and sorting makes the output reproducible. No
// other operator is reordered. A nil node degrades to an empty object;
// canonicalization has no failure path.
func Expression(node *domain.ExpressionNode) domain.Document {
	if node == nil {
		return domain.Object()
	}
	if len(node.Children) == 0 {
		return domain.Object(
			domain.F("source", domain.String(node.Name)),
			domain.F("type", domain.String(node.ResultType)),
		)
	}

	params := make([]domain.Document, len(node.Children))
	for i, child := range node.Children {
		params[i] = Expression(child)
	}
	if commutative(node.Name) {
		sort.Slice(params, func(i, j int) bool {
			return params[i].String() < params[j].String()
		})
	}

	return domain.Object(
		domain.F("operator", domain.String(node.Name)),
		domain.F("parameters", domain.Array(params...)),
	)
}

// Expressions converts a list of expression trees, preserving list order.
// Nil entries are dropped.
func Expressions(nodes []*domain.ExpressionNode) domain.Document {
	items := make([]domain.Document, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		items = append(items, Expression(n))
	}
	return domain.Array(items...)
}

func commutative(operator string) bool {
	return operator == "And" || operator == "Or"
}
