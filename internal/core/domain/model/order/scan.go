package order

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ScanContext declares which kind of code a scanner claims to have read.
// A scan only matches tasks belonging to its context; ContextGeneral matches
// any open task kind.
type ScanContext string

const (
	ContextSKU     ScanContext = "sku"
	ContextBin     ScanContext = "bin"
	ContextTote    ScanContext = "tote"
	ContextAWB     ScanContext = "awb"
	ContextGeneral ScanContext = "general"
)

// Validate checks the context is one of the five defined scan contexts.
func (c ScanContext) Validate() error {
	switch c {
	case ContextSKU, ContextBin, ContextTote, ContextAWB, ContextGeneral:
		return nil
	default:
		return errs.NewValueIsInvalidError("scan context")
	}
}

// String returns the context name.
func (c ScanContext) String() string {
	return string(c)
}

// PickLine is one line of warehouse picking work: collect requiredQty units
// of a SKU from a bin. A sku-context scan must present the SKU code, a
// bin-context scan the bin code; general matches either.
type PickLine struct {
	id          kernel.UUID
	sku         string
	bin         string
	requiredQty int
	pickedQty   int
}

// NewPickLine creates a pick line with nothing picked yet.
func NewPickLine(id kernel.UUID, sku string, bin string, requiredQty int) (*PickLine, error) {
	return RestorePickLine(id, sku, bin, requiredQty, 0)
}

// RestorePickLine reconstructs a pick line from persistence.
func RestorePickLine(id kernel.UUID, sku string, bin string, requiredQty int, pickedQty int) (*PickLine, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if bin == "" {
		return nil, errs.NewValueIsRequiredError("bin")
	}
	if requiredQty <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("requiredQty", requiredQty, 1, maxLineQty)
	}
	if pickedQty < 0 || pickedQty > requiredQty {
		return nil, errs.NewValueIsOutOfRangeError("pickedQty", pickedQty, 0, requiredQty)
	}

	return &PickLine{
		id:          id,
		sku:         sku,
		bin:         bin,
		requiredQty: requiredQty,
		pickedQty:   pickedQty,
	}, nil
}

const maxLineQty = 10000

// ID returns the pick line identifier.
func (l *PickLine) ID() kernel.UUID {
	return l.id
}

// SKU returns the stock keeping unit code to pick.
func (l *PickLine) SKU() string {
	return l.sku
}

// Bin returns the bin location code holding the SKU.
func (l *PickLine) Bin() string {
	return l.bin
}

// RequiredQty returns how many units the line needs.
func (l *PickLine) RequiredQty() int {
	return l.requiredQty
}

// PickedQty returns how many units have been picked so far.
func (l *PickLine) PickedQty() int {
	return l.pickedQty
}

// IsComplete reports whether all required units have been picked.
func (l *PickLine) IsComplete() bool {
	return l.pickedQty >= l.requiredQty
}

// matches reports whether a scan in the given context with the given code
// addresses this line while it is still open.
func (l *PickLine) matches(code string, context ScanContext) bool {
	if l.IsComplete() {
		return false
	}
	switch context {
	case ContextSKU:
		return code == l.sku
	case ContextBin:
		return code == l.bin
	case ContextGeneral:
		return code == l.sku || code == l.bin
	default:
		return false
	}
}

// recordPick registers one picked unit. Calling it on a complete line is a
// programming error guarded by matches.
func (l *PickLine) recordPick() {
	l.pickedQty++
}

// PackTask is one packing sub-task: seal the order's items into an identified
// tote. A tote-context (or general) scan with the tote code completes it.
type PackTask struct {
	id     kernel.UUID
	tote   string
	packed bool
}

// NewPackTask creates an open pack task for the given tote code.
func NewPackTask(id kernel.UUID, tote string) (*PackTask, error) {
	return RestorePackTask(id, tote, false)
}

// RestorePackTask reconstructs a pack task from persistence.
func RestorePackTask(id kernel.UUID, tote string, packed bool) (*PackTask, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if tote == "" {
		return nil, errs.NewValueIsRequiredError("tote")
	}

	return &PackTask{id: id, tote: tote, packed: packed}, nil
}

// ID returns the pack task identifier.
func (t *PackTask) ID() kernel.UUID {
	return t.id
}

// Tote returns the tote code.
func (t *PackTask) Tote() string {
	return t.tote
}

// IsComplete reports whether the tote has been packed.
func (t *PackTask) IsComplete() bool {
	return t.packed
}

func (t *PackTask) matches(code string, context ScanContext) bool {
	if t.packed {
		return false
	}
	switch context {
	case ContextTote, ContextGeneral:
		return code == t.tote
	default:
		return false
	}
}

func (t *PackTask) recordPack() {
	t.packed = true
}
