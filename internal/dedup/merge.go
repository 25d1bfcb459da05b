package dedup

import "finbooks/internal/models"

// Merge synthesizes one record from a confidently matched pair. Date and
// amount come from the statement side: text extracted from the statement PDF
// is more trustworthy for numeric fields than free-form manual entry. The
// longer description wins as a proxy for completeness, and the category
// follows whichever source declared higher confidence.
func Merge(pdf, manual models.StagedTransaction) models.StagedTransaction {
	merged := pdf

	if len(manual.Description) > len(pdf.Description) {
		merged.Description = manual.Description
	}

	if manual.Confidence > pdf.Confidence {
		merged.Confidence = manual.Confidence
		if manual.Category != "" {
			merged.Category = manual.Category
		}
	}

	if merged.Category == "" {
		merged.Category = manual.Category
	}
	if merged.Merchant == "" {
		merged.Merchant = manual.Merchant
	}
	if merged.ReferenceNumber == "" {
		merged.ReferenceNumber = manual.ReferenceNumber
	}

	return merged
}
