package ytcomments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func TestSearchKeyFindsAllOccurrences(t *testing.T) {
	v := fastjson.MustParse(`{
		"a": {"needle": 1},
		"b": [{"c": {"needle": 2}}, {"d": 3}],
		"needle": 4
	}`)

	var found []int
	for m := range searchKey(v, "needle") {
		n, err := m.Int()
		require.NoError(t, err)
		found = append(found, n)
	}

	assert.Len(t, found, 3)
	assert.ElementsMatch(t, []int{1, 2, 4}, found)
}

func TestSearchKeyAbsent(t *testing.T) {
	v := fastjson.MustParse(`{"a":{"b":[1,2,{"c":"x"}]}}`)

	assert.Nil(t, firstKey(v, "needle"))
	assert.Empty(t, collectKey(v, "needle"))
}

func TestSearchKeyNilRoot(t *testing.T) {
	assert.Nil(t, firstKey(nil, "needle"))
	assert.Empty(t, collectKey(nil, "needle"))
}

func TestSearchKeyScalarRoot(t *testing.T) {
	assert.Nil(t, firstKey(fastjson.MustParse(`"just a string"`), "needle"))
}

func TestSearchKeyDoesNotDescendIntoMatches(t *testing.T) {
	v := fastjson.MustParse(`{"needle": {"needle": 1}}`)

	matches := collectKey(v, "needle")
	require.Len(t, matches, 1)
	assert.Equal(t, fastjson.TypeObject, matches[0].Type())
}

func TestSearchKeyDeepNesting(t *testing.T) {
	// Stays under fastjson's parser depth limit while being deep enough to
	// blow a naive recursive traversal with a small frame budget.
	depth := 250
	doc := strings.Repeat(`{"level":`, depth) + `{"needle":"bottom"}` + strings.Repeat(`}`, depth)

	v, err := fastjson.Parse(doc)
	require.NoError(t, err)

	m := firstKey(v, "needle")
	require.NotNil(t, m)
	assert.Equal(t, "bottom", string(m.GetStringBytes()))
}

func TestSearchKeyEarlyStop(t *testing.T) {
	v := fastjson.MustParse(`[{"needle":1},{"needle":2},{"needle":3}]`)

	count := 0
	for range searchKey(v, "needle") {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}
