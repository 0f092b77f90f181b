package workorder

import (
	"github.com/garyjia/os-extractor/internal/models"
	"go.uber.org/zap"
)

// Extractor assembles an ExtractionResult from the text of a work order
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new work-order extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract normalizes the page texts and extracts a result from them
func (e *Extractor) Extract(sourceFile string, pages []string) *models.ExtractionResult {
	return e.ExtractDocument(sourceFile, NewDocument(pages))
}

// ExtractDocument runs every locator, the item recognizer and the totals
// reconciler over d. It never fails: fields not found are left nil.
func (e *Extractor) ExtractDocument(sourceFile string, d *Document) *models.ExtractionResult {
	name, email := LocateClientContact(d)

	result := &models.ExtractionResult{
		SourceFile:  sourceFile,
		OrderNumber: LocateOrderNumber(d),
		IssueDate:   LocateLabelValue(d, LabelIssueDate),
		Client: models.Client{
			Code:           LocateClientCode(d),
			Name:           name,
			Email:          email,
			TaxID:          LocateTaxID(d),
			RegistrationID: LocateRegistrationID(d),
			Address:        LocateAddress(d),
			Phones:         LocatePhones(d),
		},
		Vehicle: models.Vehicle{
			Fleet:    LocateLabelValue(d, LabelFleet),
			Plate:    LocateLabelValue(d, LabelPlate),
			Odometer: LocateOdometer(d),
		},
		Remarks: LocateRemarks(d),
	}

	start, found := itemTableStart(d)
	if !found {
		e.logger.Warn("Item table header not found, scanning from document start",
			zap.String("source_file", sourceFile),
			zap.String("header", ItemTableHeader))
	}

	r := NewRecognizer()
	r.FeedAll(d.lines[start:])
	result.Items = r.Items()

	if !r.Done() {
		e.logger.Debug("Items sentinel not found, scanned to end of document",
			zap.String("source_file", sourceFile))
	}
	if r.Discarded() > 0 {
		e.logger.Debug("Discarded item drafts without NCM",
			zap.String("source_file", sourceFile),
			zap.Int("discarded", r.Discarded()))
	}

	result.Totals = ReconcileTotals(result.Items, LocateDiscount(d))

	e.logger.Info("Work order extracted",
		zap.String("source_file", sourceFile),
		zap.Stringp("order_number", result.OrderNumber),
		zap.Int("line_count", d.Len()),
		zap.Int("item_count", len(result.Items)),
		zap.String("gross", result.Totals.Gross.StringFixed(2)),
		zap.String("net", result.Totals.Net.StringFixed(2)))

	return result
}
