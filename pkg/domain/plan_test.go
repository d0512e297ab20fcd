package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanNodeString(t *testing.T) {
	plan := &PlanNode{
		Kind: PlanKindFilter,
		Name: "Filter",
		Children: []*PlanNode{
			{
				Kind:      PlanKindRelation,
				Name:      "Relation",
				ArgString: "table=users",
			},
		},
	}

	assert.Equal(t, "Filter\n  Relation table=users\n", plan.String())
}

func TestPlanNodeStringNil(t *testing.T) {
	var plan *PlanNode
	assert.Equal(t, "", plan.String())
}

func TestPlanNodeJSONDecode(t *testing.T) {
	input := `{
		"kind": "Filter",
		"name": "Filter",
		"condition": {"name": "And", "children": [
			{"name": "a", "resultType": "int"},
			{"name": "b", "resultType": "int"}
		]},
		"children": [
			{"kind": "Relation", "name": "Relation", "schema": ["int", "string"]}
		]
	}`

	var plan PlanNode
	require.NoError(t, json.Unmarshal([]byte(input), &plan))

	assert.Equal(t, PlanKindFilter, plan.Kind)
	require.NotNil(t, plan.Condition)
	assert.Equal(t, "And", plan.Condition.Name)
	assert.Len(t, plan.Condition.Children, 2)
	require.Len(t, plan.Children, 1)
	assert.Equal(t, []string{"int", "string"}, plan.Children[0].Schema)
}
