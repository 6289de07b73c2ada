package adamsxml

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

// The legacy endpoint takes a single "q" parameter holding an ordered
// section list:
//
//	(mode:sections,sections:(filters:(public-library:!t),
//	  options:(within-folder:(enable:!t,insubfolder:!t,path:'...')),
//	  properties_search_all:!(...),properties_search_any:!(...),
//	  single_content_search:'...'))
//
// plus start/rows pagination parameters.

// buildQuery compiles the neutral filter model into the sectioned
// grammar. Under AND combination the single tolerated in-list clause
// expands into properties_search_any; under OR every clause lands there.
func buildQuery(model domain.FilterModel, now func() time.Time) (url.Values, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}

	libFlag := "public-library"
	if model.Scope.Library == domain.LibraryLegacy {
		libFlag = "legacy-library"
	}
	sections := []string{fmt.Sprintf("filters:(%s:!t)", libFlag)}

	if section, ok := folderSection(model.Scope, now()); ok {
		sections = append(sections, section)
	}

	condAll, condAny, err := propertyConditions(model)
	if err != nil {
		return nil, err
	}
	if len(condAll) > 0 {
		sections = append(sections, fmt.Sprintf("properties_search_all:!(%s)", strings.Join(condAll, ",")))
	}
	if len(condAny) > 0 {
		sections = append(sections, fmt.Sprintf("properties_search_any:!(%s)", strings.Join(condAny, ",")))
	}

	if model.FreeText != "" {
		sections = append(sections, fmt.Sprintf("single_content_search:'%s'", percentEncode(model.FreeText)))
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("(mode:sections,sections:(%s))", strings.Join(sections, ",")))
	params.Set("qn", "AdamsSearch")
	params.Set("tab", "advanced-search-pars")
	return params, nil
}

// folderSection computes a within-folder scope from an explicit folder
// path, or derives one from the "today"/"this month" pseudo-scopes via
// the released-documents folder naming convention.
func folderSection(scope domain.Scope, now time.Time) (string, bool) {
	var path string
	var inSubfolders bool

	switch {
	case scope.FolderPath != "":
		path = scope.FolderPath
		inSubfolders = !strings.Contains(path, ",")
	case scope.AddedToday:
		monthFolder := now.Format("January 2006")
		dayFolder := now.Format("January 02, 2006")
		path = fmt.Sprintf("/Recent Released Documents/%s/%s", monthFolder, dayFolder)
		inSubfolders = false
	case scope.AddedThisMonth:
		path = fmt.Sprintf("/Recent Released Documents/%s", now.Format("January 2006"))
		inSubfolders = true
	default:
		return "", false
	}

	pathEnc := strings.ReplaceAll(path, " ", "+")
	inSubFlag := "!f"
	if inSubfolders {
		inSubFlag = "!t"
	}
	return fmt.Sprintf("options:(within-folder:(enable:!t,insubfolder:%s,path:'%s'))", inSubFlag, pathEnc), true
}

func propertyConditions(model domain.FilterModel) (condAll, condAny []string, err error) {
	appendAny := func(clause domain.FilterClause) error {
		if clause.Operator == domain.OpInList {
			for _, v := range clause.Values {
				condAny = append(condAny, condition(clause.Field, "eq", v))
			}
			return nil
		}
		op, opErr := legacyOperator(clause.Operator)
		if opErr != nil {
			return opErr
		}
		condAny = append(condAny, condition(clause.Field, op, clause.Value))
		return nil
	}

	if model.Combine == domain.CombineAny {
		for _, clause := range append(append([]domain.FilterClause{}, model.AllOf...), model.AnyOf...) {
			if err := appendAny(clause); err != nil {
				return nil, nil, err
			}
		}
		return condAll, condAny, nil
	}

	for _, clause := range model.AllOf {
		if clause.Operator == domain.OpInList {
			if err := appendAny(clause); err != nil {
				return nil, nil, err
			}
			continue
		}
		op, opErr := legacyOperator(clause.Operator)
		if opErr != nil {
			return nil, nil, opErr
		}
		condAll = append(condAll, condition(clause.Field, op, clause.Value))
	}
	for _, clause := range model.AnyOf {
		if err := appendAny(clause); err != nil {
			return nil, nil, err
		}
	}
	return condAll, condAny, nil
}

func condition(field, op, value string) string {
	return fmt.Sprintf("!(%s,%s,'%s','')", field, op, percentEncode(value))
}

func legacyOperator(op domain.Operator) (string, error) {
	switch op {
	case domain.OpEquals:
		return "eq", nil
	case domain.OpNotEquals:
		return "not_eq", nil
	case domain.OpContains:
		return "contains", nil
	case domain.OpNotContains:
		return "not_contains", nil
	case domain.OpStartsWith:
		return "starts", nil
	case domain.OpNotStartsWith:
		return "not_starts", nil
	default:
		return "", domain.WrapError(domain.ErrValidation, "legacy_filter",
			fmt.Errorf("unsupported operator %q", op))
	}
}

// percentEncode escapes everything outside unreserved characters and
// '/', so spaces and quotes never reach the wire raw. The grammar
// predates RFC 3986 query escaping and is stricter than the stdlib's.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteString(fmt.Sprintf("%%%02X", c))
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '.', c == '-', c == '~':
		return true
	default:
		return false
	}
}
