package domain

import (
	"strings"
)

// PlanNodeKind discriminates the plan-node variants this subsystem
// understands. The planner owns the trees; everything here is read-only.
type PlanNodeKind string

const (
	PlanKindRelation   PlanNodeKind = "Relation"
	PlanKindFilter     PlanNodeKind = "Filter"
	PlanKindProject    PlanNodeKind = "Project"
	PlanKindJoin       PlanNodeKind = "Join"
	PlanKindAggregate  PlanNodeKind = "Aggregate"
	PlanKindLimit      PlanNodeKind = "Limit"
	PlanKindLocalLimit PlanNodeKind = "LocalLimit"
	PlanKindSort       PlanNodeKind = "Sort"
	PlanKindWindow     PlanNodeKind = "Window"
	PlanKindUnion      PlanNodeKind = "Union"
	PlanKindExpand     PlanNodeKind = "Expand"
	PlanKindUnknown    PlanNodeKind = "Unknown"
)

// RootNodeName marks the terminal whole-query plan node. Only plans rooted
// at this node are canonicalized and emitted; any other root is a partial
// sub-invocation and produces no event.
const RootNodeName = "ReturnAnswer"

// ExpressionNode is one node of a planner expression tree. A node with no
// children is a leaf reference (column, literal) carrying its result type;
// an inner node is an operator applied to its children.
type ExpressionNode struct {
	Name       string            `json:"name"`
	ResultType string            `json:"resultType,omitempty"`
	Children   []*ExpressionNode `json:"children,omitempty"`
}

// PlanNode is one node of a planner query-plan tree, a tagged union over
// the closed set of kinds above. Kind-specific fields are populated only
// for the matching kind; ArgString is the planner's free-text argument
// dump, used as the fallback for kinds with no structured arguments.
type PlanNode struct {
	Kind     PlanNodeKind `json:"kind"`
	Name     string       `json:"name"`
	Children []*PlanNode  `json:"children,omitempty"`

	// Relation
	Schema []string `json:"schema,omitempty"`

	// Filter, Join, Limit, LocalLimit
	Condition *ExpressionNode `json:"condition,omitempty"`

	// Project
	Fields []*ExpressionNode `json:"fields,omitempty"`

	// Join
	JoinType string `json:"joinType,omitempty"`

	// Aggregate
	AggregateExprs []*ExpressionNode `json:"aggregateExprs,omitempty"`
	GroupingExprs  []*ExpressionNode `json:"groupingExprs,omitempty"`

	// Sort
	SortGlobal bool              `json:"sortGlobal,omitempty"`
	SortOrder  []*ExpressionNode `json:"sortOrder,omitempty"`

	// Window
	WindowExprs []*ExpressionNode `json:"windowExprs,omitempty"`

	// Fallback free-text arguments
	ArgString string `json:"argString,omitempty"`
}

// String renders a human-readable indented dump of the plan tree. This is
// the opaque plan field of pushdown-failure events; it never goes through
// the canonicalizer.
func (p *PlanNode) String() string {
	var sb strings.Builder
	p.dump(&sb, 0)
	return sb.String()
}

func (p *PlanNode) dump(sb *strings.Builder, depth int) {
	if p == nil {
		return
	}
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
	sb.WriteString(p.Name)
	if p.ArgString != "" {
		sb.WriteString(" ")
		sb.WriteString(p.ArgString)
	}
	sb.WriteString("\n")
	for _, c := range p.Children {
		c.dump(sb, depth+1)
	}
}

// PushdownFailure describes an operation the connector could not push down
// to the backend, as reported by the pushdown compiler.
type PushdownFailure struct {
	Operation string
	Message   string
	Known     bool
	Details   string
}
