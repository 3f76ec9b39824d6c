package db

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"family-registry/pkg/types"
)

// Psql - построитель запросов с плейсхолдерами $1, $2 ...
var Psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ApplyFilters добавляет условия filter[...] для разрешённых полей.
// Значение через запятую превращается в IN.
func ApplyFilters(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string) sq.SelectBuilder {
	keys := make([]string, 0, len(filter.Filter))
	for k := range filter.Filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, jsonField := range keys {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}
		val := filter.Filter[jsonField]
		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			builder = builder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
		} else {
			builder = builder.Where(sq.Eq{dbCol: val})
		}
	}
	return builder
}

// likeEscaper экранирует спецсимволы LIKE; в Postgres escape-символ по умолчанию - обратный слэш.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ApplySearch ищет подстроку без учёта регистра по нескольким колонкам.
// % и _ в запросе ищутся буквально.
func ApplySearch(builder sq.SelectBuilder, search string, columns ...string) sq.SelectBuilder {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return builder
	}
	pattern := "%" + likeEscaper.Replace(search) + "%"
	or := sq.Or{}
	for _, col := range columns {
		or = append(or, sq.ILike{col: pattern})
	}
	return builder.Where(or)
}

// ApplySortAndPage добавляет сортировку (или defaultOrder) и LIMIT/OFFSET при withPagination.
func ApplySortAndPage(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string, defaultOrder ...string) sq.SelectBuilder {
	sorted := false
	fields := make([]string, 0, len(filter.Sort))
	for k := range filter.Sort {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	for _, jsonField := range fields {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if strings.ToLower(filter.Sort[jsonField]) == "desc" {
			sqlDir = "DESC"
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
		sorted = true
	}
	if !sorted && len(defaultOrder) > 0 {
		builder = builder.OrderBy(defaultOrder...)
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	return builder
}
