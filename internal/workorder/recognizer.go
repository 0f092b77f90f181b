package workorder

import (
	"strings"

	"github.com/garyjia/os-extractor/internal/models"
)

// draft is an item whose tokens are still being collected
type draft struct {
	quantity       string
	unitPrice      string
	total          string
	description    string
	classification string
	reference      string
}

func (d draft) complete(productCode string) models.LineItem {
	return models.LineItem{
		Quantity:       ParseDecimal(d.quantity),
		UnitPrice:      ParseDecimal(d.unitPrice),
		Total:          ParseDecimal(d.total),
		Description:    d.description,
		Classification: d.classification,
		Reference:      d.reference,
		ProductCode:    productCode,
	}
}

// Recognizer rebuilds line items from the item table, where every cell was
// extracted as its own line. Each item is the sequence quantity, unit price,
// total, description, NCM, reference, product code. An item is emitted only
// when its product code matches; a missing NCM discards the draft.
type Recognizer struct {
	state     State
	draft     draft
	items     []models.LineItem
	done      bool
	discarded int
}

// NewRecognizer creates a recognizer waiting for a quantity
func NewRecognizer() *Recognizer {
	return &Recognizer{state: StateQuantity}
}

// State returns the current grammar state
func (r *Recognizer) State() State {
	return r.state
}

// Done reports whether the "Total Bruto:" sentinel has been reached
func (r *Recognizer) Done() bool {
	return r.done
}

// Discarded returns how many drafts were dropped on a missing NCM
func (r *Recognizer) Discarded() int {
	return r.discarded
}

// Items returns the completed items in document order
func (r *Recognizer) Items() []models.LineItem {
	out := make([]models.LineItem, len(r.items))
	copy(out, r.items)
	return out
}

// Feed consumes one line. Lines after the sentinel are ignored.
func (r *Recognizer) Feed(line string) {
	if r.done || line == "" {
		return
	}
	if strings.HasPrefix(line, ItemsSentinel) {
		r.done = true
		r.draft = draft{}
		return
	}
	if !r.step(line) {
		r.step(line)
	}
}

// FeedAll consumes lines until the sentinel or the end of input
func (r *Recognizer) FeedAll(lines []string) {
	for _, l := range lines {
		if r.done {
			return
		}
		r.Feed(l)
	}
}

// step applies one transition and reports whether line was consumed.
// Only a failed NCM match leaves the line for the quantity state. This is a
// deliberate change from the earlier extractor, which skipped that line:
// a quantity that directly follows a broken item still starts the next one.
func (r *Recognizer) step(line string) bool {
	switch r.state {
	case StateQuantity:
		if reQuantity.MatchString(line) {
			r.draft = draft{quantity: line}
			r.state = StateUnitPrice
		}
	case StateUnitPrice:
		if reAmount.MatchString(line) {
			r.draft.unitPrice = line
			r.state = StateTotal
		}
	case StateTotal:
		if reAmount.MatchString(line) {
			r.draft.total = line
			r.state = StateDescription
		}
	case StateDescription:
		r.draft.description = line
		r.state = StateClassification
	case StateClassification:
		if !reClassification.MatchString(line) {
			r.draft = draft{}
			r.discarded++
			r.state = StateQuantity
			return false
		}
		r.draft.classification = line
		r.state = StateReference
	case StateReference:
		if reReference.MatchString(line) {
			r.draft.reference = line
			r.state = StateProduct
		}
	case StateProduct:
		if reProductCode.MatchString(line) {
			r.items = append(r.items, r.draft.complete(line))
			r.draft = draft{}
			r.state = StateQuantity
		}
	}
	return true
}

// itemTableStart returns the index after the "Referência" header. Without the
// header the scan starts at line 0, which may pick up header noise as items.
func itemTableStart(d *Document) (int, bool) {
	i := d.indexOf(ItemTableHeader)
	if i < 0 {
		return 0, false
	}
	return i + 1, true
}

// RecognizeItems runs a fresh Recognizer over the item table of d
func RecognizeItems(d *Document) []models.LineItem {
	start, _ := itemTableStart(d)
	r := NewRecognizer()
	r.FeedAll(d.lines[start:])
	return r.Items()
}
