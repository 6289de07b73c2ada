package usecase

import (
	"strings"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

// candidate pairs a normalized record with the trust level of the
// backend that produced it.
type candidate struct {
	doc           domain.Document
	authoritative bool
}

// fingerprintOf derives the deduplication key: accession identifier if
// present, else the download URI lowercased and trimmed, else the
// lowercased trimmed title.
func fingerprintOf(doc domain.Document, docsBaseURL string) string {
	if doc.AccessionNumber != "" {
		return doc.AccessionNumber
	}
	if link := doc.DownloadURL(docsBaseURL); link != "" {
		return strings.TrimSpace(strings.ToLower(link))
	}
	return strings.TrimSpace(strings.ToLower(doc.Title))
}

// dedupe collapses candidates sharing a fingerprint. First occurrence
// in backend-emission order wins; since authoritative backends are
// driven first, the kept duplicate is the trusted one. A later,
// potentially higher-scoring duplicate is dropped.
func dedupe(cands []candidate, docsBaseURL string) []candidate {
	seen := make(map[string]struct{}, len(cands))
	out := make([]candidate, 0, len(cands))
	for _, c := range cands {
		fp := fingerprintOf(c.doc, docsBaseURL)
		if fp == "" {
			out = append(out, c)
			continue
		}
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, c)
	}
	return out
}
