package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/zone"
	"storefront/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order was not created through
// Place or Restore.
var ErrOrderIsNotConstructed = errors.New("Order must be created via Place or Restore")

// ItemInput is a cart line as submitted at checkout, priced in AUD.
type ItemInput struct {
	ProductID kernel.UUID
	Name      string
	Quantity  int
	UnitPrice kernel.Money
}

// Draft carries everything checkout resolved before the order is placed.
// Amounts in Items, Quote and Discount are AUD; Place converts them with Currency.
type Draft struct {
	ID        kernel.UUID
	Number    string
	Customer  kernel.Actor
	Items     []ItemInput
	Method    Method
	Address   kernel.Address
	Quote     zone.Quote
	Currency  currency.Snapshot
	Discount  kernel.Money
	PromoCode string
	Schedule  Schedule
	PlacedAt  time.Time
}

// Order is the aggregate root of the fulfillment lifecycle.
//
// Order follows these invariants:
//   - total == subtotal + delivery fee - discount, all in the order currency
//   - the currency snapshot never changes after Place
//   - pickup orders carry no zone and a zero delivery fee
//   - status only changes through Transition, Cancel and Deliver, each of which
//     appends exactly one history entry
//
// Changes not yet persisted (history rows, assignment log rows, the delivery
// proof and events) are collected until the repository pulls them.
type Order struct {
	kernel.EventRecorder

	id            kernel.UUID
	number        string
	customerID    kernel.UUID
	status        Status
	items         []LineItem
	subtotal      kernel.Money
	deliveryFee   kernel.Money
	discount      kernel.Money
	total         kernel.Money
	currency      currency.Snapshot
	method        Method
	address       kernel.Address
	zoneID        *kernel.UUID
	zoneName      string
	estimatedDays int
	schedule      Schedule
	assignedStaff *kernel.UUID
	issue         *DeliveryIssue
	deliveredAt   *time.Time
	promoCode     string
	version       int
	createdAt     time.Time

	newHistory     []HistoryEntry
	newAssignments []Assignment
	newProof       *DeliveryProof

	isConstructed bool
}

// Place creates a pending order from a resolved checkout.
//
// Every AUD amount is converted into the order currency and rounded to cents
// before the totals are summed, so the total invariant holds exactly in the
// order currency. The first history entry is attributed to the customer.
//
// Returns a joined validation error listing every problem found.
func Place(d Draft) (*Order, error) {
	o := &Order{
		status:        Pending,
		currency:      d.Currency,
		method:        d.Method,
		promoCode:     strings.TrimSpace(d.PromoCode),
		schedule:      d.Schedule,
		createdAt:     d.PlacedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(d.ID),
		o.setNumber(d.Number),
		o.setCustomer(d.Customer),
		o.setItems(d.Items),
		o.setFulfilment(d.Method, d.Address, d.Quote),
		o.setCurrency(d.Currency),
	); err != nil {
		return nil, err
	}
	if err := o.price(d.Quote.Fee, d.Discount); err != nil {
		return nil, err
	}

	o.appendHistory(Pending, "order placed", d.Customer.ID(), d.PlacedAt)
	total := o.total
	o.Record(o.event(EventCreated, EventPayload{
		Status:   Pending,
		ActorID:  d.Customer.ID(),
		Total:    &total,
		Currency: o.currency.Code(),
	}, d.PlacedAt))
	return o, nil
}

// RestoreParams is the persisted state of an order.
type RestoreParams struct {
	ID            kernel.UUID
	Number        string
	CustomerID    kernel.UUID
	Status        Status
	Items         []LineItem
	Subtotal      kernel.Money
	DeliveryFee   kernel.Money
	Discount      kernel.Money
	Total         kernel.Money
	Currency      currency.Snapshot
	Method        Method
	Address       kernel.Address
	ZoneID        *kernel.UUID
	ZoneName      string
	EstimatedDays int
	Schedule      Schedule
	AssignedStaff *kernel.UUID
	Issue         *DeliveryIssue
	DeliveredAt   *time.Time
	PromoCode     string
	Version       int
	CreatedAt     time.Time
}

// Restore rebuilds an order from persistence and re-checks the total invariant.
func Restore(p RestoreParams) (*Order, error) {
	o := &Order{
		id:            p.ID,
		number:        p.Number,
		customerID:    p.CustomerID,
		status:        p.Status,
		items:         p.Items,
		subtotal:      p.Subtotal,
		deliveryFee:   p.DeliveryFee,
		discount:      p.Discount,
		total:         p.Total,
		currency:      p.Currency,
		method:        p.Method,
		address:       p.Address,
		zoneID:        p.ZoneID,
		zoneName:      p.ZoneName,
		estimatedDays: p.EstimatedDays,
		schedule:      p.Schedule,
		assignedStaff: p.AssignedStaff,
		issue:         p.Issue,
		deliveredAt:   p.DeliveredAt,
		promoCode:     p.PromoCode,
		version:       p.Version,
		createdAt:     p.CreatedAt,
		isConstructed: true,
	}

	var totalErr error
	if expected, err := p.Subtotal.Add(p.DeliveryFee).Sub(p.Discount); err != nil || !expected.Equal(p.Total) {
		totalErr = errs.NewValueIsInvalidErrorWithCause(
			"order total",
			fmt.Errorf("%s != %s + %s - %s", p.Total, p.Subtotal, p.DeliveryFee, p.Discount),
		)
	}
	if err := errors.Join(
		p.ID.Validate(),
		p.CustomerID.Validate(),
		p.Status.Validate(),
		ValidateNumber(p.Number),
		totalErr,
	); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate reports ErrOrderIsNotConstructed for a nil or zero-value Order.
// Command handlers call it on aggregates loaded from repositories.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) Number() string               { return o.number }
func (o *Order) CustomerID() kernel.UUID      { return o.customerID }
func (o *Order) Status() Status               { return o.status }
func (o *Order) Items() []LineItem            { return append([]LineItem(nil), o.items...) }
func (o *Order) Subtotal() kernel.Money       { return o.subtotal }
func (o *Order) DeliveryFee() kernel.Money    { return o.deliveryFee }
func (o *Order) Discount() kernel.Money       { return o.discount }
func (o *Order) Total() kernel.Money          { return o.total }
func (o *Order) Currency() currency.Snapshot  { return o.currency }
func (o *Order) Method() Method               { return o.method }
func (o *Order) Address() kernel.Address      { return o.address }
func (o *Order) ZoneID() *kernel.UUID         { return o.zoneID }
func (o *Order) ZoneName() string             { return o.zoneName }
func (o *Order) EstimatedDays() int           { return o.estimatedDays }
func (o *Order) Schedule() Schedule           { return o.schedule }
func (o *Order) AssignedStaff() *kernel.UUID  { return o.assignedStaff }
func (o *Order) DeliveredAt() *time.Time      { return o.deliveredAt }
func (o *Order) PromoCode() string            { return o.promoCode }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) Issue() *DeliveryIssue        { return o.issue }
func (o *Order) HasOpenIssue() bool           { return o.issue != nil && o.issue.IsOpen() }
func (o *Order) Version() int                 { return o.version }
func (o *Order) PendingProof() *DeliveryProof { return o.newProof }

// AdvanceVersion is called by the repository once the stored row moved to the
// next version.
func (o *Order) AdvanceVersion() {
	o.version++
}

// Transition advances the order one step along its adjacency table.
//
// Business rules:
//   - the target must be the single forward successor of the current status
//   - staff and admins may make any forward move
//   - the system actor may only confirm a pending order (payment completed)
//   - cancellation goes through Cancel and delivery orders are delivered through
//     Deliver with a proof
//
// Returns ErrInvalidTransition or ErrUnauthorizedActor; nothing changes on error.
func (o *Order) Transition(to Status, actor kernel.Actor, note string, at time.Time) error {
	if to == Cancelled {
		return fmt.Errorf("%w: cancellation must go through cancel", ErrInvalidTransition)
	}
	if err := o.status.CanAdvanceTo(to, o.method); err != nil {
		return err
	}
	if to == Delivered && o.method == MethodDelivery {
		return errs.NewValueIsRequiredError("delivery proof")
	}

	systemConfirm := actor.IsSystem() && o.status == Pending && to == Confirmed
	if !actor.IsStaff() && !systemConfirm {
		return actor.Unauthorized(fmt.Sprintf("move an order from %s to %s", o.status, to))
	}

	o.apply(to, actor, note, at)
	return nil
}

// Cancel moves the order to Cancelled. The caller restores stock for Items in the
// same transaction.
//
// Customers may cancel only their own order and only while it is pending,
// confirmed or processing. Staff and admins may cancel from any non-terminal
// status. The system actor may only cancel pending orders.
func (o *Order) Cancel(actor kernel.Actor, reason string, at time.Time) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: order is %s", ErrInvalidTransition, o.status)
	}

	switch {
	case actor.IsStaff():
	case actor.IsSystem():
		if o.status != Pending {
			return actor.Unauthorized(fmt.Sprintf("cancel an order that is %s", o.status))
		}
	case actor.IsCustomer():
		if !actor.Is(o.customerID) {
			return actor.Unauthorized("cancel another customer's order")
		}
		if !o.status.customerCancellable() {
			return actor.Unauthorized(fmt.Sprintf("cancel an order that is %s", o.status))
		}
	default:
		return actor.Unauthorized("cancel orders")
	}

	o.apply(Cancelled, actor, strings.TrimSpace(reason), at)
	return nil
}

// Deliver records the proof of delivery and moves the order to Delivered.
// Delivery orders must be out for delivery, pickup orders ready for collection.
func (o *Order) Deliver(proof DeliveryProof, actor kernel.Actor, at time.Time) error {
	if err := o.status.CanAdvanceTo(Delivered, o.method); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return actor.Unauthorized("record a delivery")
	}
	if o.newProof != nil {
		return errs.NewValueIsInvalidErrorWithCause("delivery proof", errors.New("already captured"))
	}
	if !proof.OrderID().IsEqual(o.id) {
		return errs.NewValueIsInvalidErrorWithCause("delivery proof", errors.New("belongs to another order"))
	}

	o.newProof = &proof
	note := "left at door"
	if !proof.LeftAtDoor() {
		note = "received by " + proof.RecipientName()
	}
	o.apply(Delivered, actor, note, at)
	return nil
}

// AssignStaff assigns or reassigns the staff member responsible for the order.
// Only admins assign. The order must be confirmed and not terminal; a
// reassignment requires a reason. Status is never changed.
func (o *Order) AssignStaff(staffID kernel.UUID, actor kernel.Actor, reason string, at time.Time) error {
	if !actor.IsAdmin() {
		return actor.Unauthorized("assign staff")
	}
	if err := staffID.Validate(); err != nil {
		return err
	}
	if !o.status.ReachedConfirmed() {
		return fmt.Errorf("%w: cannot assign staff to a %s order", ErrInvalidTransition, o.status)
	}

	reason = strings.TrimSpace(reason)
	previous := o.assignedStaff
	if previous != nil {
		if previous.IsEqual(staffID) {
			return errs.NewValueIsInvalidErrorWithCause("staff", errors.New("already assigned"))
		}
		if reason == "" {
			return errs.NewValueIsRequiredError("reassignment reason")
		}
	}

	assignment := Assignment{
		ID:            kernel.NewUUID(),
		OrderID:       o.id,
		StaffID:       staffID,
		PreviousStaff: previous,
		Reason:        reason,
		AssignedBy:    *actor.ID(),
		AssignedAt:    at,
	}
	o.newAssignments = append(o.newAssignments, assignment)
	o.assignedStaff = &staffID
	o.Record(o.event(EventStaffAssigned, EventPayload{
		Status:  o.status,
		ActorID: actor.ID(),
		StaffID: &staffID,
		Note:    reason,
	}, at))
	return nil
}

// ReportIssue attaches a delivery issue to an order that is out for delivery.
func (o *Order) ReportIssue(actor kernel.Actor, report string, at time.Time) error {
	if !actor.IsStaff() {
		return actor.Unauthorized("report delivery issues")
	}
	if o.status != OutForDelivery {
		return fmt.Errorf("%w: issues are reported while out for delivery, order is %s", ErrInvalidTransition, o.status)
	}
	report = strings.TrimSpace(report)
	if report == "" {
		return errs.NewValueIsRequiredError("issue report")
	}
	if o.HasOpenIssue() {
		return errs.NewValueIsInvalidErrorWithCause("delivery issue", errors.New("an issue is already open"))
	}

	o.issue = &DeliveryIssue{
		Report:     report,
		ReportedAt: at,
		ReportedBy: *actor.ID(),
	}
	o.Record(o.event(EventIssueReported, EventPayload{Status: o.status, ActorID: actor.ID(), Note: report}, at))
	return nil
}

// ResolveIssue closes the open delivery issue. It never changes status.
func (o *Order) ResolveIssue(actor kernel.Actor, resolution string, at time.Time) error {
	if !actor.IsStaff() {
		return actor.Unauthorized("resolve delivery issues")
	}
	if !o.HasOpenIssue() {
		return errs.NewValueIsInvalidErrorWithCause("delivery issue", errors.New("no open issue"))
	}
	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return errs.NewValueIsRequiredError("issue resolution")
	}

	resolved := *o.issue
	resolved.Resolution = resolution
	resolved.ResolvedAt = &at
	resolved.ResolvedBy = actor.ID()
	o.issue = &resolved
	o.Record(o.event(EventIssueResolved, EventPayload{Status: o.status, ActorID: actor.ID(), Note: resolution}, at))
	return nil
}

// RecordRefund publishes the refund of a payment. Only admins refund.
// Cancelling and restocking an undelivered order is a separate Cancel call.
func (o *Order) RecordRefund(payment *Payment, actor kernel.Actor, at time.Time) error {
	if !actor.IsAdmin() {
		return actor.Unauthorized("refund orders")
	}
	if !payment.OrderID().IsEqual(o.id) {
		return errs.NewValueIsInvalidErrorWithCause("payment", errors.New("belongs to another order"))
	}
	amount := payment.Amount()
	o.Record(o.event(EventRefunded, EventPayload{
		Status:   o.status,
		ActorID:  actor.ID(),
		Total:    &amount,
		Currency: payment.Currency(),
	}, at))
	return nil
}

// PullHistory returns the history entries not yet persisted and forgets them.
func (o *Order) PullHistory() []HistoryEntry {
	out := o.newHistory
	o.newHistory = nil
	return out
}

// PullAssignments returns the assignment log rows not yet persisted and forgets them.
func (o *Order) PullAssignments() []Assignment {
	out := o.newAssignments
	o.newAssignments = nil
	return out
}

// PullProof returns the delivery proof not yet persisted, if any, and forgets it.
func (o *Order) PullProof() *DeliveryProof {
	out := o.newProof
	o.newProof = nil
	return out
}

func (o *Order) apply(to Status, actor kernel.Actor, note string, at time.Time) {
	from := o.status
	o.status = to
	if to == Delivered {
		o.deliveredAt = &at
	}
	o.appendHistory(to, note, actor.ID(), at)
	o.Record(o.event(EventStatusChanged, EventPayload{
		Status:  to,
		From:    &from,
		ActorID: actor.ID(),
		Note:    note,
	}, at))
}

func (o *Order) appendHistory(status Status, note string, by *kernel.UUID, at time.Time) {
	o.newHistory = append(o.newHistory, HistoryEntry{
		ID:        kernel.NewUUID(),
		OrderID:   o.id,
		Status:    status,
		Note:      note,
		ChangedBy: by,
		CreatedAt: at,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if err := ValidateNumber(number); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setCustomer(actor kernel.Actor) error {
	id := actor.ID()
	if id == nil {
		return errs.NewValueIsRequiredError("customer")
	}
	o.customerID = *id
	return nil
}

func (o *Order) setItems(items []ItemInput) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}
	seen := make(map[kernel.UUID]struct{}, len(items))
	var errList []error
	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		if _, dup := seen[item.ProductID]; dup {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"line items", fmt.Errorf("product %s listed twice", item.ProductID)))
		}
		seen[item.ProductID] = struct{}{}
		if item.Quantity <= 0 {
			errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", item.Quantity, 1, "unbounded"))
		}
		if strings.TrimSpace(item.Name) == "" {
			errList = append(errList, errs.NewValueIsRequiredError(fmt.Sprintf("item %d name", i)))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	o.items = make([]LineItem, 0, len(items))
	for _, item := range items {
		o.items = append(o.items, LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return nil
}

func (o *Order) setFulfilment(method Method, address kernel.Address, quote zone.Quote) error {
	switch method {
	case MethodPickup:
		return nil
	case MethodDelivery:
		var errList []error
		if address.IsZero() {
			errList = append(errList, errs.NewValueIsRequiredError("delivery address"))
		}
		if !quote.Delivers || quote.ZoneID == nil {
			errList = append(errList, errs.NewValueIsRequiredError("delivery zone"))
		}
		if err := errors.Join(errList...); err != nil {
			return err
		}
		o.address = address
		o.zoneID = quote.ZoneID
		o.zoneName = quote.ZoneName
		o.estimatedDays = quote.EstimatedDays
		return nil
	}
	_, err := ParseMethod(string(method))
	return err
}

func (o *Order) setCurrency(snapshot currency.Snapshot) error {
	if snapshot.Code() == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	return nil
}

// price converts every AUD amount and fills the line totals and order totals.
func (o *Order) price(feeAUD, discountAUD kernel.Money) error {
	o.subtotal = kernel.Zero
	for i := range o.items {
		unit := o.currency.Convert(o.items[i].UnitPrice)
		o.items[i].UnitPrice = unit
		o.items[i].LineTotal = unit.Times(o.items[i].Quantity)
		o.subtotal = o.subtotal.Add(o.items[i].LineTotal)
	}

	o.deliveryFee = kernel.Zero
	if o.method == MethodDelivery {
		o.deliveryFee = o.currency.Convert(feeAUD)
	}
	o.discount = o.currency.Convert(discountAUD)

	total, err := o.subtotal.Add(o.deliveryFee).Sub(o.discount)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"discount",
			fmt.Errorf("%s exceeds subtotal plus delivery fee", o.discount),
		)
	}
	o.total = total
	return nil
}
