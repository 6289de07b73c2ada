package adamsxml

import (
	"strings"
	"testing"
	"time"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)
}

func TestBuildQuerySectionOrder(t *testing.T) {
	model := domain.FilterModel{
		FreeText: "steam generator",
		AllOf: []domain.FilterClause{
			domain.NewClause("DocketNumber", domain.OpStartsWith, "05000"),
		},
		Combine: domain.CombineAll,
		Scope:   domain.Scope{Library: domain.LibraryMain},
	}

	params, err := buildQuery(model, fixedNow)
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}

	q := params.Get("q")
	want := "(mode:sections,sections:(filters:(public-library:!t)," +
		"properties_search_all:!(!(DocketNumber,starts,'05000',''))," +
		"single_content_search:'steam%20generator'))"
	if q != want {
		t.Fatalf("expected\n%s\ngot\n%s", want, q)
	}
	if params.Get("qn") != "AdamsSearch" {
		t.Fatalf("expected qn=AdamsSearch, got %q", params.Get("qn"))
	}
}

func TestBuildQueryExpandsListClauseIntoAnySection(t *testing.T) {
	model := domain.FilterModel{
		AllOf: []domain.FilterClause{
			domain.NewListClause("DocumentType", []string{"Letter", "Memo"}),
		},
		Combine: domain.CombineAll,
	}

	params, err := buildQuery(model, fixedNow)
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}

	q := params.Get("q")
	if strings.Contains(q, "properties_search_all") {
		t.Fatalf("list clause must not produce an all section: %s", q)
	}
	if !strings.Contains(q, "properties_search_any:!(!(DocumentType,eq,'Letter',''),!(DocumentType,eq,'Memo',''))") {
		t.Fatalf("expected one eq disjunct per list value, got %s", q)
	}
}

func TestBuildQueryLegacyLibraryFlag(t *testing.T) {
	model := domain.FilterModel{
		FreeText: "reactor vessel",
		Scope:    domain.Scope{Library: domain.LibraryLegacy},
	}

	params, err := buildQuery(model, fixedNow)
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if !strings.Contains(params.Get("q"), "filters:(legacy-library:!t)") {
		t.Fatalf("expected legacy library flag, got %s", params.Get("q"))
	}
}

func TestBuildQueryRecencyScopes(t *testing.T) {
	today := domain.FilterModel{Scope: domain.Scope{AddedToday: true}}
	params, err := buildQuery(today, fixedNow)
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	wantPath := "path:'/Recent+Released+Documents/March+2024/March+07,+2024'"
	if q := params.Get("q"); !strings.Contains(q, wantPath) || !strings.Contains(q, "insubfolder:!f") {
		t.Fatalf("expected today folder scope %s without subfolders, got %s", wantPath, q)
	}

	month := domain.FilterModel{Scope: domain.Scope{AddedThisMonth: true}}
	params, err = buildQuery(month, fixedNow)
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if q := params.Get("q"); !strings.Contains(q, "path:'/Recent+Released+Documents/March+2024'") || !strings.Contains(q, "insubfolder:!t") {
		t.Fatalf("expected month folder scope with subfolders, got %s", q)
	}
}

func TestPercentEncodeLeavesNoRawSpacesOrQuotes(t *testing.T) {
	encoded := percentEncode(`O'Brien & "Smith" / report`)
	if strings.ContainsAny(encoded, ` '"&`) {
		t.Fatalf("raw reserved characters survived encoding: %q", encoded)
	}
	if encoded != "O%27Brien%20%26%20%22Smith%22%20/%20report" {
		t.Fatalf("unexpected encoding: %q", encoded)
	}
}
