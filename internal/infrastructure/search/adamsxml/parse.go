package adamsxml

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

// The legacy response is an XML document with repeated <result>
// elements whose children are field-name-tagged text nodes.

type resultElement struct {
	Fields []fieldElement `xml:",any"`
}

type fieldElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

func parseResults(body string) ([]domain.Document, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))

	var docs []domain.Document
	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, domain.WrapError(domain.ErrParse, "legacy_search", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "result" {
			continue
		}

		var elem resultElement
		if err := decoder.DecodeElement(&elem, &start); err != nil {
			return nil, domain.WrapError(domain.ErrParse, "legacy_search", err)
		}

		record := make(map[string]string, len(elem.Fields))
		for _, f := range elem.Fields {
			record[f.XMLName.Local] = strings.TrimSpace(f.Value)
		}
		docs = append(docs, normalizeRecord(record))
	}
	return docs, nil
}

func normalizeRecord(record map[string]string) domain.Document {
	doc := domain.Document{
		AccessionNumber: record["AccessionNumber"],
		Title:           record["DocumentTitle"],
		DocumentDate:    record["DocumentDate"],
		AddedDate:       record["PublishDatePARS"],

		DocumentType: record["DocumentType"],

		AuthorName:           record["AuthorName"],
		AuthorAffiliation:    record["AuthorAffiliation"],
		AddresseeName:        record["AddresseeName"],
		AddresseeAffiliation: record["AddresseeAffiliation"],

		DocketNumber:  record["DocketNumber"],
		LicenseNumber: record["LicenseNumber"],
		PackageNumber: record["PackageNumber"],
		ReportNumber:  record["DocumentReportNumber"],
		Keywords:      record["Keyword"],

		PageCount:   domain.ParseLenientInt(record["EstimatedPageCount"]),
		ContentSize: domain.ParseLenientInt64(record["ContentSize"]),
		MimeType:    record["MimeType"],
		URI:         record["URI"],

		IsLegacy: true,
		Source:   domain.SourceLegacyXML,
	}
	if doc.DocumentType != "" {
		doc.DocumentTypes = []string{doc.DocumentType}
	}
	if doc.DocketNumber != "" {
		doc.DocketNumbers = []string{doc.DocketNumber}
	}
	return doc
}
