package scoredb

import (
	"fmt"
	"strings"
	"time"
)

// OrderBy is one of the supported list orderings.
type OrderBy string

const (
	OrderByID        OrderBy = "id"
	OrderByScore     OrderBy = "score"
	OrderByScoreDesc OrderBy = "score desc"
)

// orderClauses maps each ordering to the SQL emitted for it. Orderings never
// reach the query text any other way.
var orderClauses = map[OrderBy]string{
	OrderByID:        "id ASC",
	OrderByScore:     "score ASC, id ASC",
	OrderByScoreDesc: "score DESC, id ASC",
}

// ParseOrderBy validates a caller-supplied ordering.
func ParseOrderBy(s string) (OrderBy, error) {
	o := OrderBy(strings.ToLower(strings.TrimSpace(s)))
	if o == "" {
		return OrderByID, nil
	}
	if _, ok := orderClauses[o]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}
	return o, nil
}

// FilterSpec narrows a list query. Nil fields are not filtered on.
type FilterSpec struct {
	Since    *time.Time
	Username *string
	Pending  *bool
	OrderBy  OrderBy
	// Limit caps the number of rows; zero means no limit.
	Limit int
}

const listBaseQuery = "SELECT id, username, score, scored_at, pending FROM scores WHERE 1=1"

// listQuery accumulates predicates together with their bind values so that
// placeholder numbers always follow the values actually bound.
type listQuery struct {
	sb   strings.Builder
	args []any
}

func (q *listQuery) bind(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *listQuery) where(column, op string, v any) {
	fmt.Fprintf(&q.sb, " AND %s %s %s", column, op, q.bind(v))
}

// BuildListQuery renders filter into a parameterized query and its bind
// values. Predicates are emitted in the order since, username, pending.
func BuildListQuery(filter FilterSpec) (string, []any, error) {
	order := filter.OrderBy
	if order == "" {
		order = OrderByID
	}
	orderClause, ok := orderClauses[order]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidOrder, string(order))
	}
	if filter.Limit < 0 {
		return "", nil, ErrInvalidLimit
	}

	q := &listQuery{}
	q.sb.WriteString(listBaseQuery)

	if filter.Since != nil {
		q.where("scored_at", ">=", filter.Since.UTC())
	}
	if filter.Username != nil {
		q.where("username", "=", *filter.Username)
	}
	if filter.Pending != nil {
		q.where("pending", "=", *filter.Pending)
	}

	q.sb.WriteString(" ORDER BY ")
	q.sb.WriteString(orderClause)

	if filter.Limit > 0 {
		q.sb.WriteString(" LIMIT ")
		q.sb.WriteString(q.bind(filter.Limit))
	}

	return q.sb.String(), q.args, nil
}
