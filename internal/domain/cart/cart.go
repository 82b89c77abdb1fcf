package cart

import "github.com/shopspring/decimal"

// Discriminator tells whether an add created a line item or merged into one.
type Discriminator string

const (
	StatusNew        Discriminator = "new"
	StatusDuplicated Discriminator = "duplicated"
)

type LineItem struct {
	ProductID int64
	Quantity  int64
}

// DetailedItem is a line joined with its catalog product. Available is false
// once the product can no longer be bought.
type DetailedItem struct {
	LineItem
	Title     string
	Slug      string
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Available bool
}

// MaxLineQuantity caps the units a single line item can hold.
const MaxLineQuantity int64 = 10_000

// Cart is embedded in the owner's user record. TotalAmount equals the sum of
// quantity * unit price over LineItems as long as every mutation is given the
// same price for a product. When the catalog price moves between mutations
// the total is settled by SettleTotal: it never goes below zero and is zero
// once no units are left.
//
// The methods on Cart are the reference ledger. The document store applies
// the same rules in single atomic updates; carttest.RunLedgerProperties runs
// one property table against both.
type Cart struct {
	OwnerID     string
	LineItems   []LineItem
	TotalAmount decimal.Decimal
}

type DetailedCart struct {
	OwnerID     string
	Items       []DetailedItem
	TotalAmount decimal.Decimal
}

type AddResult struct {
	Status      Discriminator
	ProductID   int64
	Quantity    int64
	TotalAmount decimal.Decimal
}

type RemoveResult struct {
	ProductID       int64
	Index           int
	RemovedQuantity int64
	TotalAmount     decimal.Decimal
}

// ConsumedLine is a line taken out of the cart by checkout: up to Quantity
// units, charged at UnitPrice.
type ConsumedLine struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

type AdjustResult struct {
	ProductID   int64
	Index       int
	Quantity    int64
	TotalAmount decimal.Decimal
}

func New(ownerID string) *Cart {
	return &Cart{
		OwnerID:     ownerID,
		LineItems:   []LineItem{},
		TotalAmount: decimal.Zero,
	}
}

// Find returns the index of the line item for productID, or -1.
func (c *Cart) Find(productID int64) int {
	for i, item := range c.LineItems {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) Quantity(productID int64) int64 {
	if i := c.Find(productID); i >= 0 {
		return c.LineItems[i].Quantity
	}
	return 0
}

// Units is the number of units over all lines.
func (c *Cart) Units() int64 {
	var n int64
	for _, item := range c.LineItems {
		n += item.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.LineItems) == 0
}

func (c *Cart) Clone() *Cart {
	items := make([]LineItem, len(c.LineItems))
	copy(items, c.LineItems)
	return &Cart{
		OwnerID:     c.OwnerID,
		LineItems:   items,
		TotalAmount: c.TotalAmount,
	}
}

// Add merges quantity into the line for productID, appending one if absent.
func (c *Cart) Add(productID, quantity int64, unitPrice decimal.Decimal) (AddResult, error) {
	if err := ValidateAdd(productID, quantity, unitPrice); err != nil {
		return AddResult{}, err
	}

	status := StatusDuplicated
	i := c.Find(productID)
	if i >= 0 && c.LineItems[i].Quantity > MaxLineQuantity-quantity {
		return AddResult{}, ErrQuantityLimit
	}
	if i < 0 {
		c.LineItems = append(c.LineItems, LineItem{ProductID: productID})
		i = len(c.LineItems) - 1
		status = StatusNew
	}
	c.LineItems[i].Quantity += quantity
	c.TotalAmount = c.TotalAmount.Add(LineAmount(quantity, unitPrice))

	return AddResult{
		Status:      status,
		ProductID:   productID,
		Quantity:    c.LineItems[i].Quantity,
		TotalAmount: c.TotalAmount,
	}, nil
}

// Remove drops the whole line for productID regardless of its quantity.
func (c *Cart) Remove(productID int64, unitPrice decimal.Decimal) (RemoveResult, error) {
	if err := ValidateRemove(productID, unitPrice); err != nil {
		return RemoveResult{}, err
	}
	i := c.Find(productID)
	if i < 0 {
		return RemoveResult{}, ErrLineItemNotFound
	}

	removed := c.LineItems[i]
	c.LineItems = append(c.LineItems[:i], c.LineItems[i+1:]...)
	c.TotalAmount = SettleTotal(c.TotalAmount, LineAmount(removed.Quantity, unitPrice).Neg(), c.Units())

	return RemoveResult{
		ProductID:       productID,
		Index:           i,
		RemovedQuantity: removed.Quantity,
		TotalAmount:     c.TotalAmount,
	}, nil
}

// Adjust sets the line quantity to newQuantity. Zero keeps an empty line.
func (c *Cart) Adjust(productID, newQuantity int64, unitPrice decimal.Decimal) (AdjustResult, error) {
	if err := ValidateAdjust(productID, newQuantity, unitPrice); err != nil {
		return AdjustResult{}, err
	}
	i := c.Find(productID)
	if i < 0 {
		return AdjustResult{}, ErrLineItemNotFound
	}

	old := c.LineItems[i].Quantity
	c.LineItems[i].Quantity = newQuantity
	c.TotalAmount = SettleTotal(c.TotalAmount, LineAmount(newQuantity-old, unitPrice), c.Units())

	return AdjustResult{
		ProductID:   productID,
		Index:       i,
		Quantity:    newQuantity,
		TotalAmount: c.TotalAmount,
	}, nil
}

// Consume takes what checkout ordered out of the cart. Each line loses up to
// line.Quantity units and is dropped once nothing is left in it; units added
// after the order was read stay. Lines the cart no longer holds are skipped.
func (c *Cart) Consume(lines []ConsumedLine) {
	for _, line := range lines {
		i := c.Find(line.ProductID)
		if i < 0 {
			continue
		}
		current := c.LineItems[i].Quantity
		taken := min(current, line.Quantity)
		if current <= line.Quantity {
			c.LineItems = append(c.LineItems[:i], c.LineItems[i+1:]...)
		} else {
			c.LineItems[i].Quantity = current - line.Quantity
		}
		c.TotalAmount = SettleTotal(c.TotalAmount, LineAmount(taken, line.UnitPrice).Neg(), c.Units())
	}
}

// SettleTotal applies delta to total for a cart left holding units. A cart
// with no units owes nothing, and a total taken down at a newer price than
// it was built with stops at zero.
func SettleTotal(total, delta decimal.Decimal, units int64) decimal.Decimal {
	if units <= 0 {
		return decimal.Zero
	}
	next := total.Add(delta)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}

// LineAmount is the contribution of quantity units at unitPrice to a total.
func LineAmount(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// ValidateAdd checks the inputs of an add before any store round-trip.
func ValidateAdd(productID, quantity int64, unitPrice decimal.Decimal) error {
	if err := validateProduct(productID); err != nil {
		return err
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > MaxLineQuantity {
		return ErrQuantityLimit
	}
	return validatePrice(unitPrice)
}

func ValidateAdjust(productID, newQuantity int64, unitPrice decimal.Decimal) error {
	if err := validateProduct(productID); err != nil {
		return err
	}
	if newQuantity < 0 {
		return ErrNegativeQuantity
	}
	if newQuantity > MaxLineQuantity {
		return ErrQuantityLimit
	}
	return validatePrice(unitPrice)
}

func ValidateRemove(productID int64, unitPrice decimal.Decimal) error {
	if err := validateProduct(productID); err != nil {
		return err
	}
	return validatePrice(unitPrice)
}

func validateProduct(productID int64) error {
	if productID <= 0 {
		return ErrInvalidProduct
	}
	return nil
}

func validatePrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}
