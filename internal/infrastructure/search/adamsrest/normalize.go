package adamsrest

import (
	"encoding/json"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

// apiDocument mirrors the response field names (case-sensitive). The
// protocol is loose about shapes: multi-value fields may arrive as a
// string or an array, numerics as a number or a formatted string.
type apiDocument struct {
	AccessionNumber    flexString  `json:"AccessionNumber"`
	DocumentTitle      flexString  `json:"DocumentTitle"`
	Name               flexString  `json:"Name"`
	DocumentDate       flexString  `json:"DocumentDate"`
	DateAddedTimestamp flexString  `json:"DateAddedTimestamp"`
	DateAdded          flexString  `json:"DateAdded"`
	DocumentType       flexStrings `json:"DocumentType"`
	AuthorName         flexStrings `json:"AuthorName"`
	AuthorAffiliation  flexStrings `json:"AuthorAffiliation"`
	AddresseeName      flexStrings `json:"AddresseeName"`
	AddresseeAffil     flexStrings `json:"AddresseeAffiliation"`
	DocketNumber       flexStrings `json:"DocketNumber"`
	LicenseNumber      flexStrings `json:"LicenseNumber"`
	PackageNumber      flexString  `json:"PackageNumber"`
	ReportNumber       flexStrings `json:"DocumentReportNumber"`
	Keyword            flexStrings `json:"Keyword"`
	EstimatedPageCount flexString  `json:"EstimatedPageCount"`
	ContentSize        flexString  `json:"ContentSize"`
	MimeType           flexString  `json:"MimeType"`
	URL                flexString  `json:"Url"`
	IsPackage          flexString  `json:"IsPackage"`
	IsLegacy           flexString  `json:"IsLegacy"`
}

func normalizeDocument(raw apiDocument) domain.Document {
	title := string(raw.DocumentTitle)
	if title == "" {
		title = string(raw.Name)
	}
	added := string(raw.DateAddedTimestamp)
	if added == "" {
		added = string(raw.DateAdded)
	}

	return domain.Document{
		AccessionNumber: string(raw.AccessionNumber),
		Title:           title,
		DocumentDate:    string(raw.DocumentDate),
		AddedDate:       added,

		DocumentType:  domain.JoinValues(raw.DocumentType),
		DocumentTypes: raw.DocumentType,

		AuthorName:           domain.JoinValues(raw.AuthorName),
		AuthorAffiliation:    domain.JoinValues(raw.AuthorAffiliation),
		AddresseeName:        domain.JoinValues(raw.AddresseeName),
		AddresseeAffiliation: domain.JoinValues(raw.AddresseeAffil),

		DocketNumber:  domain.JoinValues(raw.DocketNumber),
		DocketNumbers: raw.DocketNumber,
		LicenseNumber: domain.JoinValues(raw.LicenseNumber),
		PackageNumber: string(raw.PackageNumber),
		ReportNumber:  domain.JoinValues(raw.ReportNumber),
		Keywords:      domain.JoinValues(raw.Keyword),

		PageCount:   domain.ParseLenientInt(string(raw.EstimatedPageCount)),
		ContentSize: domain.ParseLenientInt64(string(raw.ContentSize)),
		MimeType:    string(raw.MimeType),
		URI:         string(raw.URL),

		IsPackage: raw.IsPackage == "Yes",
		IsLegacy:  raw.IsLegacy == "Yes",
		Source:    domain.SourceADAMSAPI,
	}
}

// flexString accepts a JSON string, number, boolean, or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	switch {
	case len(data) == 0 || string(data) == "null":
		*f = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	case string(data) == "true" || string(data) == "false":
		*f = flexString(data)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
		return nil
	}
}

// flexStrings accepts a single string, an array of scalars, or null,
// normalizing to an ordered list.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = nil
		return nil
	}
	if data[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item != "" {
				out = append(out, string(item))
			}
		}
		*f = out
		return nil
	}

	var single flexString
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*f = nil
		return nil
	}
	*f = []string{string(single)}
	return nil
}
