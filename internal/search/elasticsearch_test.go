package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClauses(t *testing.T, query map[string]interface{}) []map[string]interface{} {
	t.Helper()
	boolQuery, ok := query["bool"].(map[string]interface{})
	require.True(t, ok)
	clauses, ok := boolQuery["must"].([]map[string]interface{})
	require.True(t, ok)
	return clauses
}

func TestBuildSearchQuery_AlwaysFiltersActive(t *testing.T) {
	c := &ElasticsearchClient{}

	clauses := mustClauses(t, c.buildSearchQuery("", ""))

	require.Len(t, clauses, 1)
	assert.Equal(t, map[string]interface{}{"is_active": true}, clauses[0]["term"])
}

func TestBuildSearchQuery_TextQueryUsesMultiMatch(t *testing.T) {
	c := &ElasticsearchClient{}

	clauses := mustClauses(t, c.buildSearchQuery("plongée", ""))

	require.Len(t, clauses, 2)
	multiMatch, ok := clauses[1]["multi_match"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "plongée", multiMatch["query"])
	assert.Equal(t, []string{"title^2", "destination^2", "description"}, multiMatch["fields"])
}

func TestBuildSearchQuery_DateFilterAddsSlotDateRange(t *testing.T) {
	c := &ElasticsearchClient{}

	clauses := mustClauses(t, c.buildSearchQuery("", "2026-09-15"))

	require.Len(t, clauses, 2)
	rangeClause, ok := clauses[1]["range"].(map[string]interface{})
	require.True(t, ok)
	slotDates, ok := rangeClause["slot_dates"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2026-09-15", slotDates["gte"])
	assert.Equal(t, "2026-09-15", slotDates["lte"])
}

func TestBuildSearchQuery_QueryAndDateCombine(t *testing.T) {
	c := &ElasticsearchClient{}

	clauses := mustClauses(t, c.buildSearchQuery("randonnée", "2026-09-15"))

	require.Len(t, clauses, 3)
	assert.Contains(t, clauses[1], "multi_match")
	assert.Contains(t, clauses[2], "range")
}
