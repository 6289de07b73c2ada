package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Source tags identify which backend produced a record.
const (
	SourceADAMSAPI  = "ADAMS API"
	SourceLegacyXML = "ADAMS (Legacy XML)"
	SourceWebSearch = "Web"
)

const (
	mainLibraryPrefix  = "ML"
	accessionFolderLen = 6
)

var accessionPattern = regexp.MustCompile(`^ML[A-Za-z0-9]+$`)

// Document is the canonical record every backend normalizes into.
// Multi-value fields keep the original ordered list and a ", "-joined
// display string.
type Document struct {
	AccessionNumber string `json:"accession_number,omitempty"`
	Title           string `json:"title,omitempty"`
	DocumentDate    string `json:"document_date,omitempty"`
	AddedDate       string `json:"added_date,omitempty"`

	DocumentType  string   `json:"document_type,omitempty"`
	DocumentTypes []string `json:"document_types,omitempty"`

	AuthorName           string `json:"author_name,omitempty"`
	AuthorAffiliation    string `json:"author_affiliation,omitempty"`
	AddresseeName        string `json:"addressee_name,omitempty"`
	AddresseeAffiliation string `json:"addressee_affiliation,omitempty"`

	DocketNumber  string   `json:"docket_number,omitempty"`
	DocketNumbers []string `json:"docket_numbers,omitempty"`
	LicenseNumber string   `json:"license_number,omitempty"`
	PackageNumber string   `json:"package_number,omitempty"`
	ReportNumber  string   `json:"document_report_number,omitempty"`
	Keywords      string   `json:"keywords,omitempty"`

	PageCount   *int   `json:"page_count,omitempty"`
	ContentSize *int64 `json:"content_size,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	URI         string `json:"uri,omitempty"`
	Snippet     string `json:"snippet,omitempty"`

	IsPackage bool   `json:"is_package,omitempty"`
	IsLegacy  bool   `json:"is_legacy,omitempty"`
	Source    string `json:"source"`
}

// DownloadURL resolves the document to a fetchable URI. Main-library
// accessions map deterministically to a storage folder; otherwise the
// native URI is used. Empty means the document is not downloadable.
func (d Document) DownloadURL(docsBaseURL string) string {
	if d.URI != "" {
		return d.URI
	}
	if strings.HasPrefix(d.AccessionNumber, mainLibraryPrefix) && len(d.AccessionNumber) >= accessionFolderLen {
		return fmt.Sprintf("%s/%s/%s.pdf", strings.TrimRight(docsBaseURL, "/"), d.AccessionNumber[:accessionFolderLen], d.AccessionNumber)
	}
	return ""
}

// AccessionFolder returns the six-character storage folder segment for
// main-library accessions, or "" when the convention does not apply.
func AccessionFolder(accession string) string {
	if strings.HasPrefix(accession, mainLibraryPrefix) && len(accession) >= accessionFolderLen {
		return accession[:accessionFolderLen]
	}
	return ""
}

// NormalizeAccession trims and upper-cases an accession number and
// validates the ML-prefixed convention.
func NormalizeAccession(accession string) (string, error) {
	acc := strings.ToUpper(strings.TrimSpace(accession))
	switch {
	case acc == "":
		return "", WrapError(ErrValidation, "accession", fmt.Errorf("accession number cannot be empty"))
	case !strings.HasPrefix(acc, mainLibraryPrefix):
		return "", WrapError(ErrValidation, "accession", fmt.Errorf("accession number must start with %q", mainLibraryPrefix))
	case len(acc) < 8:
		return "", WrapError(ErrValidation, "accession", fmt.Errorf("accession number is too short"))
	case !accessionPattern.MatchString(acc):
		return "", WrapError(ErrValidation, "accession", fmt.Errorf("accession number contains invalid characters"))
	}
	return acc, nil
}

// JoinValues flattens a multi-value native field into a display string.
func JoinValues(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}

// ParseLenientInt parses a numeric field tolerating thousands separators
// and sentinel blanks. Failure yields nil, never an error.
func ParseLenientInt(raw string) *int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" || cleaned == "None" {
		return nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil
	}
	return &n
}

// ParseLenientInt64 is ParseLenientInt for byte-size fields.
func ParseLenientInt64(raw string) *int64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" || cleaned == "None" {
		return nil
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
