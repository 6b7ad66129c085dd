package dto

import "github.com/prperemyshlev/user-service/internal/filter"

// ToClause converts the wire clause to a compiler clause. Aliases are
// resolved; unrecognised labels are kept verbatim and dropped by Compile.
func (c FilterClause) ToClause() filter.Clause {
	field, ok := filter.ParseField(c.Field)
	if !ok {
		field = filter.Field(c.Field)
	}
	op, ok := filter.ParseOperator(c.Operator)
	if !ok {
		op = filter.Operator(c.Operator)
	}

	return filter.Clause{
		Field:        field,
		Operator:     op,
		Value:        c.Value,
		DateValue:    c.DateValue,
		BooleanValue: c.BooleanValue,
	}
}

// Clauses converts every clause of the request, keeping order
func (r FilterRequest) Clauses() []filter.Clause {
	out := make([]filter.Clause, 0, len(r.Filters))
	for _, c := range r.Filters {
		out = append(out, c.ToClause())
	}
	return out
}
