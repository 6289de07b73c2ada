package adamsrest

import (
	"fmt"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

type apiFilter struct {
	Field    string `json:"field"`
	Value    string `json:"value"`
	Operator string `json:"operator,omitempty"`
}

type searchPayload struct {
	Q             string      `json:"q"`
	Filters       []apiFilter `json:"filters"`
	AnyFilters    []apiFilter `json:"anyFilters"`
	MainLib       bool        `json:"mainLibFilter"`
	LegacyLib     bool        `json:"legacyLibFilter"`
	Sort          string      `json:"sort"`
	SortDirection int         `json:"sortDirection"`
	Skip          int         `json:"skip"`
}

// buildPayload compiles the neutral filter model into the structured
// JSON protocol. Date clauses become OData-style comparison expressions
// carried inside a filter's value; an in-list clause expands into one
// anyFilters disjunct per value.
func buildPayload(model domain.FilterModel, skip int) (searchPayload, error) {
	if err := model.Validate(); err != nil {
		return searchPayload{}, err
	}

	payload := searchPayload{
		Q:             model.FreeText,
		Filters:       []apiFilter{},
		AnyFilters:    []apiFilter{},
		MainLib:       model.Scope.Library != domain.LibraryLegacy,
		LegacyLib:     model.Scope.Library == domain.LibraryLegacy || model.Scope.IncludeLegacy,
		Sort:          defaultSort,
		SortDirection: sortDescending,
		Skip:          skip,
	}

	for _, clause := range model.AllOf {
		filters, err := compileClause(clause)
		if err != nil {
			return searchPayload{}, err
		}
		if clause.Operator == domain.OpInList {
			payload.AnyFilters = append(payload.AnyFilters, filters...)
			continue
		}
		payload.Filters = append(payload.Filters, filters...)
	}

	for _, clause := range model.AnyOf {
		filters, err := compileClause(clause)
		if err != nil {
			return searchPayload{}, err
		}
		payload.AnyFilters = append(payload.AnyFilters, filters...)
	}

	for _, d := range model.Dates {
		payload.Filters = append(payload.Filters, compileDateClause(d))
	}

	return payload, nil
}

func compileClause(clause domain.FilterClause) ([]apiFilter, error) {
	if clause.Operator == domain.OpInList {
		filters := make([]apiFilter, 0, len(clause.Values))
		for _, v := range clause.Values {
			filters = append(filters, apiFilter{
				Field:    clause.Field,
				Value:    v,
				Operator: string(domain.OpEquals),
			})
		}
		return filters, nil
	}

	op, ok := textOperators[clause.Operator]
	if !ok {
		return nil, domain.WrapError(domain.ErrValidation, "aps_filter",
			fmt.Errorf("unsupported operator %q", clause.Operator))
	}
	return []apiFilter{{Field: clause.Field, Value: clause.Value, Operator: op}}, nil
}

// compileDateClause renders (field op 'YYYY-MM-DD') expressions; a
// bounded range becomes a conjunction of two.
func compileDateClause(d domain.DateClause) apiFilter {
	switch {
	case d.From != "" && d.To != "":
		return apiFilter{
			Field: d.Field,
			Value: fmt.Sprintf("(%s ge '%s') and (%s le '%s')", d.Field, d.From, d.Field, d.To),
		}
	case d.From != "":
		return apiFilter{
			Field: d.Field,
			Value: fmt.Sprintf("(%s ge '%s')", d.Field, d.From),
		}
	default:
		return apiFilter{
			Field: d.Field,
			Value: fmt.Sprintf("(%s le '%s')", d.Field, d.To),
		}
	}
}

var textOperators = map[domain.Operator]string{
	domain.OpEquals:        "equals",
	domain.OpNotEquals:     "notequals",
	domain.OpContains:      "contains",
	domain.OpNotContains:   "notcontains",
	domain.OpStartsWith:    "starts",
	domain.OpNotStartsWith: "notstarts",
}
