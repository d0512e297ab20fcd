package canonical

import (
	"github.com/lakeroad/sparktel/pkg/domain"
)

// RelationAction is the action label recorded for backend-native relation
// nodes, replacing whatever name the planner gave the node.
const RelationAction = "SingleStoreRelation"

// Root canonicalizes a whole query plan. It only produces a document when
// the root node is the terminal whole-query node; for any other root it
// reports ok=false, which keeps partial-plan sub-invocations out of the
// telemetry stream.
func Root(plan *domain.PlanNode) (backendRelevant bool, doc domain.Document, ok bool) {
	if plan == nil || plan.Name != domain.RootNodeName {
		return false, domain.Document{}, false
	}
	backendRelevant, doc = Plan(plan)
	return backendRelevant, doc, true
}

// Plan converts one plan node (and recursively its children) into its
// canonical Document {action, args, children}. backendRelevant reports
// whether any node in the subtree is a backend-native relation. Plan
// degrades rather than fails on malformed input: a nil node becomes an
// empty object and nil children are dropped.
func Plan(plan *domain.PlanNode) (backendRelevant bool, doc domain.Document) {
	if plan == nil {
		return false, domain.Object()
	}

	action := plan.Name
	var args domain.Document

	switch plan.Kind {
	case domain.PlanKindRelation:
		backendRelevant = true
		action = RelationAction
		args = domain.Object(
			domain.F("schema", domain.Strings(plan.Schema...)),
		)
	case domain.PlanKindFilter:
		args = domain.Object(
			domain.F("conditions", Expression(plan.Condition)),
		)
	case domain.PlanKindProject:
		args = domain.Object(
			domain.F("fields", Expressions(plan.Fields)),
		)
	case domain.PlanKindJoin:
		if plan.Condition != nil {
			args = domain.Object(
				domain.F("type", domain.String(plan.JoinType)),
				domain.F("conditions", Expression(plan.Condition)),
			)
		}
	case domain.PlanKindAggregate:
		args = domain.Object(
			domain.F("field", Expressions(plan.AggregateExprs)),
			domain.F("group", Expressions(plan.GroupingExprs)),
		)
	case domain.PlanKindLimit, domain.PlanKindLocalLimit:
		args = domain.Object(
			domain.F("condition", Expression(plan.Condition)),
		)
	case domain.PlanKindSort:
		args = domain.Object(
			domain.F("global", domain.Bool(plan.SortGlobal)),
			domain.F("order", Expressions(plan.SortOrder)),
		)
	case domain.PlanKindWindow:
		args = domain.Object(
			domain.F("expression", Expressions(plan.WindowExprs)),
		)
	}

	// Union, Expand, cross joins, and unrecognized kinds carry no
	// structured args; fall back to the planner's argument string.
	if args.Kind() == domain.DocInvalid {
		args = domain.String(plan.ArgString)
	}

	children := make([]domain.Document, 0, len(plan.Children))
	for _, child := range plan.Children {
		if child == nil {
			continue
		}
		childRelevant, childDoc := Plan(child)
		backendRelevant = backendRelevant || childRelevant
		children = append(children, childDoc)
	}

	doc = domain.Object(
		domain.F("action", domain.String(action)),
		domain.F("args", args),
		domain.F("children", domain.Array(children...)),
	)
	return backendRelevant, doc
}
