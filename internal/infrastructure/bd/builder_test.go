package db

import (
	"testing"

	"family-registry/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowed = map[string]string{
	"district":   "f.district",
	"risk_level": "f.risk_level",
	"created_at": "f.created_at",
}

func TestApplyListParams(t *testing.T) {
	filter := types.Filter{
		Filter:         map[string]interface{}{"district": "Карасайский", "risk_level": "high,medium", "password": "x"},
		Sort:           map[string]string{"created_at": "desc", "password": "asc"},
		Limit:          10,
		Offset:         20,
		WithPagination: true,
	}

	b := Psql.Select("f.id").From("families f")
	b = ApplyFilters(b, filter, allowed)
	b = ApplySearch(b, "иван", "f.family_name", "f.case_number")
	b = ApplySortAndPage(b, filter, allowed, "f.id DESC")

	sql, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT f.id FROM families f WHERE f.district = $1 AND f.risk_level IN ($2,$3) AND (f.family_name ILIKE $4 OR f.case_number ILIKE $5) ORDER BY f.created_at DESC LIMIT 10 OFFSET 20",
		sql)
	assert.Equal(t, []interface{}{"Карасайский", "high", "medium", "%иван%", "%иван%"}, args)
}

func TestApplySearch_EscapesWildcards(t *testing.T) {
	b := ApplySearch(Psql.Select("id").From("families"), " 50%_a\\b ", "family_name")

	sql, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM families WHERE (family_name ILIKE $1)", sql)
	assert.Equal(t, []interface{}{`%50\%\_a\\b%`}, args)

	_, args, err = ApplySearch(Psql.Select("id").From("families"), "%", "family_name").ToSql()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{`%\%%`}, args)
}

func TestApplySortAndPage_DefaultOrderWithoutPagination(t *testing.T) {
	b := ApplySortAndPage(Psql.Select("id").From("families"), types.Filter{Limit: 10}, allowed, "id DESC")
	sql, _, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM families ORDER BY id DESC", sql)
}
