package batch

import (
	"fmt"
	"strings"
)

const (
	// correlationSep joins document and page in a correlation identifier.
	// Document names must never contain it: decoding splits on the first
	// occurrence, so an embedded separator would silently misattribute
	// results to the wrong document.
	correlationSep = "__"

	pagePrefix = "page-"
)

// EncodeCustomID builds the correlation identifier for one (document, page)
// request. It rejects identifiers that could not be decoded back losslessly.
func EncodeCustomID(document, page string) (string, error) {
	if document == "" {
		return "", fmt.Errorf("document name is empty")
	}
	if page == "" {
		return "", fmt.Errorf("page identifier is empty for document %s", document)
	}
	if strings.Contains(document, correlationSep) {
		return "", fmt.Errorf("document name %q contains reserved separator %q", document, correlationSep)
	}
	if strings.Contains(page, correlationSep) {
		return "", fmt.Errorf("page identifier %q contains reserved separator %q", page, correlationSep)
	}
	return document + correlationSep + pagePrefix + page, nil
}

// DecodeCustomID recovers (document, page) from a correlation identifier
// echoed back by the batch service.
func DecodeCustomID(id string) (document, page string, err error) {
	document, rest, found := strings.Cut(id, correlationSep)
	if !found {
		return "", "", fmt.Errorf("correlation id %q missing separator %q", id, correlationSep)
	}
	if document == "" {
		return "", "", fmt.Errorf("correlation id %q has empty document part", id)
	}
	if !strings.HasPrefix(rest, pagePrefix) {
		return "", "", fmt.Errorf("correlation id %q missing %q prefix", id, pagePrefix)
	}
	page = strings.TrimPrefix(rest, pagePrefix)
	if page == "" {
		return "", "", fmt.Errorf("correlation id %q has empty page part", id)
	}
	return document, page, nil
}
