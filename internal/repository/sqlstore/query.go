package sqlstore

import (
	"strings"
)

// selectBuilder assembles a SELECT together with its bound arguments. Predicates
// carry their own ? placeholders and arguments, so filter text is never spliced
// into the statement.
type selectBuilder struct {
	dialect Dialect
	columns []string
	from    string
	joins   []string
	where   []string
	args    []any
	orderBy []string
	limit   int
	offset  int
	paged   bool
}

func newSelect(dialect Dialect, from string, columns ...string) *selectBuilder {
	return &selectBuilder{
		dialect: dialect,
		from:    from,
		columns: columns,
	}
}

func (b *selectBuilder) Join(clause string) *selectBuilder {
	b.joins = append(b.joins, clause)
	return b
}

// Where adds an AND-combined predicate.
func (b *selectBuilder) Where(predicate string, args ...any) *selectBuilder {
	b.where = append(b.where, predicate)
	b.args = append(b.args, args...)
	return b
}

func (b *selectBuilder) OrderBy(exprs ...string) *selectBuilder {
	b.orderBy = append(b.orderBy, exprs...)
	return b
}

func (b *selectBuilder) Page(limit, offset int) *selectBuilder {
	b.limit = limit
	b.offset = offset
	b.paged = true
	return b
}

func (b *selectBuilder) base() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.from)
	for _, j := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	return sb.String()
}

// SQL returns the row query with ordering and pagination applied.
func (b *selectBuilder) SQL() (string, []any) {
	query := b.base()
	args := append([]any(nil), b.args...)
	if len(b.orderBy) > 0 {
		query += " ORDER BY " + strings.Join(b.orderBy, ", ")
	}
	if b.paged {
		query += " LIMIT ? OFFSET ?"
		args = append(args, b.limit, b.offset)
	}
	return b.dialect.rebind(query), args
}

// CountSQL returns a count over the same predicate, ignoring order and pagination.
func (b *selectBuilder) CountSQL() (string, []any) {
	query := "SELECT COUNT(*) FROM (" + b.base() + ") sub"
	return b.dialect.rebind(query), append([]any(nil), b.args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching text literally anywhere in a value.
// Use with ESCAPE '\'.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}
