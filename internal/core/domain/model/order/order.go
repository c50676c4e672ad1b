package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// VerificationOutcome records the final answer of the address verification
// pipeline on the order itself, so the projection does not need to join the
// attempt table to display it.
type VerificationOutcome string

const (
	VerificationNone              VerificationOutcome = ""
	VerificationVerified          VerificationOutcome = "verified"
	VerificationNeedsConfirmation VerificationOutcome = "needs_confirmation"
	VerificationFailed            VerificationOutcome = "failed"
)

// Order is the aggregate root of the fulfillment lifecycle. It owns the macro
// status state machine, the warehouse sub-tasks (pick lines and pack tasks),
// and the courier assignment.
//
// Invariants:
//   - status only moves along the legal transition set (see Status)
//   - warehouse scans only mutate sub-tasks through ApplyScan, which also
//     advances the macro status when all sub-tasks complete
//   - the (channel, source order number) pair is the intake idempotency key;
//     uniqueness is enforced by the repository
//   - every status change records its timestamp
type Order struct {
	id        kernel.UUID
	seq       int64
	reference string

	channel      string
	sourceNumber string
	contact      string

	address  kernel.Address
	value    kernel.Money
	priority Priority

	status              Status
	verificationOutcome VerificationOutcome
	exceptionReason     string

	courier string
	awb     string

	pickLines []*PickLine
	packTasks []*PackTask

	statusTimes map[Status]time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates an order in Fetched status from an inbound source payload.
// Pick lines and pack tasks are attached afterwards with AddPickLine and
// AddPackTask, before warehouse execution starts.
func NewOrder(
	id kernel.UUID,
	reference string,
	channel string,
	sourceNumber string,
	contact string,
	address kernel.Address,
	value kernel.Money,
	priority Priority,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:      Fetched,
		statusTimes: map[Status]time.Time{Fetched: now},
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setReference(reference),
		o.setChannel(channel),
		o.setSourceNumber(sourceNumber),
		o.setAddress(address),
		o.setValue(value),
		o.setPriority(priority),
	); err != nil {
		return nil, err
	}

	o.contact = contact
	return o, nil
}

// RestoreOrder reconstructs an order aggregate from persistence, including its
// database-assigned sequence number and warehouse sub-tasks.
func RestoreOrder(
	id kernel.UUID,
	seq int64,
	reference string,
	channel string,
	sourceNumber string,
	contact string,
	address kernel.Address,
	value kernel.Money,
	priority Priority,
	status Status,
	verificationOutcome VerificationOutcome,
	exceptionReason string,
	courier string,
	awb string,
	pickLines []*PickLine,
	packTasks []*PackTask,
	statusTimes map[Status]time.Time,
) (*Order, error) {
	o, err := NewOrder(id, reference, channel, sourceNumber, contact, address, value, priority, time.Now())
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	o.seq = seq
	o.status = status
	o.verificationOutcome = verificationOutcome
	o.exceptionReason = exceptionReason
	o.courier = courier
	o.awb = awb
	o.pickLines = pickLines
	o.packTasks = packTasks
	o.statusTimes = make(map[Status]time.Time, len(statusTimes))
	for s, ts := range statusTimes {
		o.statusTimes[s] = ts
	}
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || o.guard.Validate(ErrOrderIsNotConstructed) != nil {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Seq returns the database-assigned sequence number, or 0 before first persist.
func (o *Order) Seq() int64 {
	return o.seq
}

// Reference returns the human-readable order reference.
func (o *Order) Reference() string {
	return o.reference
}

// Channel returns the source e-commerce channel.
func (o *Order) Channel() string {
	return o.channel
}

// SourceNumber returns the order number in the source channel.
func (o *Order) SourceNumber() string {
	return o.sourceNumber
}

// Contact returns the customer contact (phone in WhatsApp format).
func (o *Order) Contact() string {
	return o.contact
}

// Address returns the delivery address, geocoded once verified.
func (o *Order) Address() kernel.Address {
	return o.address
}

// Value returns the order's monetary value.
func (o *Order) Value() kernel.Money {
	return o.value
}

// Priority returns the fulfillment priority.
func (o *Order) Priority() Priority {
	return o.priority
}

// Status returns the current macro status.
func (o *Order) Status() Status {
	return o.status
}

// VerificationOutcome returns the recorded address verification outcome.
func (o *Order) VerificationOutcome() VerificationOutcome {
	return o.verificationOutcome
}

// ExceptionReason returns the last failure reason, set when the order entered
// Exception status. Empty for healthy orders.
func (o *Order) ExceptionReason() string {
	return o.exceptionReason
}

// Courier returns the assigned courier name, empty if unassigned.
func (o *Order) Courier() string {
	return o.courier
}

// AWB returns the airway-bill code scanned at dispatch, empty before dispatch.
func (o *Order) AWB() string {
	return o.awb
}

// PickLines returns the order's pick lines.
func (o *Order) PickLines() []*PickLine {
	return o.pickLines
}

// PackTasks returns the order's pack tasks.
func (o *Order) PackTasks() []*PackTask {
	return o.packTasks
}

// ItemCount returns the total number of units across all pick lines.
func (o *Order) ItemCount() int {
	count := 0
	for _, l := range o.pickLines {
		count += l.RequiredQty()
	}
	return count
}

// StatusTime returns when the order entered the given status, or nil if it
// never did.
func (o *Order) StatusTime(s Status) *time.Time {
	ts, ok := o.statusTimes[s]
	if !ok {
		return nil
	}
	return &ts
}

// AddPickLine attaches a pick line. Only allowed before warehouse execution
// starts (Fetched or Validated status).
func (o *Order) AddPickLine(line *PickLine) error {
	if o.status != Fetched && o.status != Validated {
		return errs.NewIllegalTransitionError("order", o.status.String(), "add pick line")
	}
	o.pickLines = append(o.pickLines, line)
	return nil
}

// AddPackTask attaches a pack task. Same status constraint as AddPickLine.
func (o *Order) AddPackTask(task *PackTask) error {
	if o.status != Fetched && o.status != Validated {
		return errs.NewIllegalTransitionError("order", o.status.String(), "add pack task")
	}
	o.packTasks = append(o.packTasks, task)
	return nil
}

// MarkValidated applies a successful verification outcome: the resolved,
// geocoded address replaces the inbound one and the order advances
// Fetched -> Validated.
func (o *Order) MarkValidated(resolvedAddress kernel.Address, now time.Time) error {
	if err := resolvedAddress.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(Validated)
	if err != nil {
		return err
	}

	o.address = resolvedAddress
	o.verificationOutcome = VerificationVerified
	o.applyStatus(newStatus, now)
	return nil
}

// AwaitAddressConfirmation records that verification produced an ambiguous
// result and the order is waiting on the customer. The macro status does not
// change; the order stays in Fetched until confirmed or expired.
func (o *Order) AwaitAddressConfirmation() error {
	if o.status != Fetched {
		return errs.NewIllegalTransitionError("order", o.status.String(), "await address confirmation")
	}
	o.verificationOutcome = VerificationNeedsConfirmation
	return nil
}

// ApplyScan routes a scan event to the matching open sub-task and advances
// the macro status when warehouse work completes. It returns the domain event
// types the scan caused, in causal order.
//
// A scan that matches nothing fails with a ScanContextMismatchError and
// leaves all quantities unchanged.
func (o *Order) ApplyScan(code string, context ScanContext, now time.Time) ([]event.Type, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	if err := context.Validate(); err != nil {
		return nil, err
	}

	if context == ContextAWB {
		return o.applyAWBScan(code)
	}

	if line := o.findPickLine(code, context); line != nil {
		return o.applyPickScan(line, now)
	}

	if context == ContextTote || context == ContextGeneral {
		if task := o.findPackTask(code, context); task != nil {
			return o.applyPackScan(task, now)
		}
	}

	return nil, errs.NewScanContextMismatchError(code, context.String())
}

// MarkShipped applies a manifest handover: the order leaves the warehouse
// with the given courier, Packed -> Shipped.
func (o *Order) MarkShipped(courier string, now time.Time) error {
	if courier == "" {
		return errs.NewValueIsRequiredError("courier")
	}

	newStatus, err := o.status.TransitionTo(Shipped)
	if err != nil {
		return err
	}

	o.courier = courier
	o.applyStatus(newStatus, now)
	return nil
}

// MarkDelivered completes the order, Shipped -> Delivered.
func (o *Order) MarkDelivered(now time.Time) error {
	newStatus, err := o.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	o.applyStatus(newStatus, now)
	return nil
}

// Cancel withdraws the order. Legal only while the order has never shipped:
// once the package left with a courier, an exception is resolved by the
// operator, not by cancellation.
func (o *Order) Cancel(now time.Time) error {
	if _, shipped := o.statusTimes[Shipped]; shipped {
		return errs.NewIllegalTransitionError("order", o.status.String(), Cancelled.String())
	}

	newStatus, err := o.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	o.applyStatus(newStatus, now)
	return nil
}

// MarkException moves the order to Exception with the given reason.
// Returns changed=false when the order is already in Exception (idempotent).
func (o *Order) MarkException(reason string, now time.Time) (bool, error) {
	if reason == "" {
		return false, errs.NewValueIsRequiredError("reason")
	}
	if o.status == Exception {
		return false, nil
	}

	newStatus, err := o.status.TransitionTo(Exception)
	if err != nil {
		return false, err
	}

	o.exceptionReason = reason
	if o.verificationOutcome == VerificationNeedsConfirmation {
		o.verificationOutcome = VerificationFailed
	}
	o.applyStatus(newStatus, now)
	return true, nil
}

// MarkVerificationFailed records a terminal verification failure and moves the
// order to Exception with the address_unverifiable reason.
func (o *Order) MarkVerificationFailed(now time.Time) (bool, error) {
	o.verificationOutcome = VerificationFailed
	return o.MarkException("address_unverifiable", now)
}

func (o *Order) applyAWBScan(code string) ([]event.Type, error) {
	if o.status != Packed {
		return nil, errs.NewScanContextMismatchError(code, ContextAWB.String())
	}
	if o.awb != "" && o.awb != code {
		return nil, errs.NewScanContextMismatchError(code, ContextAWB.String())
	}

	o.awb = code
	return []event.Type{event.OrderDispatched}, nil
}

func (o *Order) applyPickScan(line *PickLine, now time.Time) ([]event.Type, error) {
	var emitted []event.Type

	// The first pick scan of a validated order starts warehouse execution.
	if o.status == Validated {
		newStatus, err := o.status.TransitionTo(Picking)
		if err != nil {
			return nil, err
		}
		o.applyStatus(newStatus, now)
		emitted = append(emitted, event.OrderPicking)
	} else if o.status != Picking {
		return nil, errs.NewIllegalTransitionError("order", o.status.String(), Picking.String())
	}

	line.recordPick()
	if line.IsComplete() {
		emitted = append(emitted, event.PickCompleted)
	}

	return o.checkWarehouseComplete(emitted, now)
}

func (o *Order) applyPackScan(task *PackTask, now time.Time) ([]event.Type, error) {
	if o.status != Picking {
		return nil, errs.NewIllegalTransitionError("order", o.status.String(), Packed.String())
	}

	task.recordPack()
	emitted := []event.Type{event.PackCompleted}

	return o.checkWarehouseComplete(emitted, now)
}

// checkWarehouseComplete advances Picking -> Packed once every pick line and
// pack task is complete.
func (o *Order) checkWarehouseComplete(emitted []event.Type, now time.Time) ([]event.Type, error) {
	if o.status != Picking || !o.allPicksComplete() || !o.allPacksComplete() {
		return emitted, nil
	}

	newStatus, err := o.status.TransitionTo(Packed)
	if err != nil {
		return nil, err
	}
	o.applyStatus(newStatus, now)
	return append(emitted, event.OrderPacked), nil
}

func (o *Order) allPicksComplete() bool {
	for _, l := range o.pickLines {
		if !l.IsComplete() {
			return false
		}
	}
	return true
}

func (o *Order) allPacksComplete() bool {
	for _, t := range o.packTasks {
		if !t.IsComplete() {
			return false
		}
	}
	return true
}

func (o *Order) findPickLine(code string, context ScanContext) *PickLine {
	for _, l := range o.pickLines {
		if l.matches(code, context) {
			return l
		}
	}
	return nil
}

func (o *Order) findPackTask(code string, context ScanContext) *PackTask {
	for _, t := range o.packTasks {
		if t.matches(code, context) {
			return t
		}
	}
	return nil
}

func (o *Order) applyStatus(s Status, now time.Time) {
	o.status = s
	o.statusTimes[s] = now
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setReference(reference string) error {
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}
	o.reference = reference
	return nil
}

func (o *Order) setChannel(channel string) error {
	if channel == "" {
		return errs.NewValueIsRequiredError("channel")
	}
	o.channel = channel
	return nil
}

func (o *Order) setSourceNumber(sourceNumber string) error {
	if sourceNumber == "" {
		return errs.NewValueIsRequiredError("sourceNumber")
	}
	o.sourceNumber = sourceNumber
	return nil
}

func (o *Order) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setValue(value kernel.Money) error {
	if err := value.Validate(); err != nil {
		return err
	}
	o.value = value
	return nil
}

func (o *Order) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}
