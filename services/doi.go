package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

const defaultDOIPrefix = "10.55555"

// BuildDOI mints a DOI for a submission at publication time. The registrant
// prefix comes from DOI_PREFIX; the suffix embeds the submission number so
// the identifier stays human-traceable, plus a short random tail.
func BuildDOI(submissionNumber string) string {
	prefix := os.Getenv("DOI_PREFIX")
	if prefix == "" {
		prefix = defaultDOIPrefix
	}
	tail := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s/%s.%s", prefix, strings.ToLower(submissionNumber), tail)
}

// BuildInvoiceNumber mints an invoice reference for an APC payment.
func BuildInvoiceNumber(submissionNumber string) string {
	tail := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("INV-%s-%s", strings.ToUpper(submissionNumber), strings.ToUpper(tail))
}
