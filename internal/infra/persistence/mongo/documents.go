package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	domcart "example.com/storefront/internal/domain/cart"
	domuser "example.com/storefront/internal/domain/user"
)

type lineItemDocument struct {
	Product int64 `bson:"product"`
	Count   int64 `bson:"count"`
}

type cartDocument struct {
	Products    []lineItemDocument `bson:"products"`
	TotalAmount bson.Decimal128    `bson:"totalAmount"`
}

type addressDocument struct {
	ID          bson.ObjectID `bson:"_id"`
	FirstName   string        `bson:"fname"`
	LastName    string        `bson:"lname"`
	Email       string        `bson:"email"`
	Phone       string        `bson:"phone"`
	Country     string        `bson:"country"`
	City        string        `bson:"city"`
	Zip         string        `bson:"zip"`
	Line1       string        `bson:"address"`
	Line2       string        `bson:"secondAddress"`
	Description string        `bson:"description,omitempty"`
}

type userDocument struct {
	ID                bson.ObjectID     `bson:"_id,omitempty"`
	Username          string            `bson:"username"`
	Email             string            `bson:"email"`
	Password          string            `bson:"password,omitempty"`
	EmailVerified     bool              `bson:"emailVerified"`
	AuthProvider      string            `bson:"authProvider"`
	Role              string            `bson:"role"`
	ShippingAddresses []addressDocument `bson:"shippingAddresses"`
	Cart              cartDocument      `bson:"cart"`
	CreatedAt         time.Time         `bson:"createdAt"`
	UpdatedAt         time.Time         `bson:"updatedAt"`
}

// cartProjection decodes documents fetched with only the cart field.
type cartProjection struct {
	ID   bson.ObjectID `bson:"_id"`
	Cart cartDocument  `bson:"cart"`
}

// decimal128Zero is 0E+0.
var decimal128Zero, _ = bson.ParseDecimal128("0")

// toDecimal128 fails for values with more significant digits than
// Decimal128 holds.
func toDecimal128(d decimal.Decimal) (bson.Decimal128, error) {
	v, err := bson.ParseDecimal128(d.String())
	if err != nil {
		return bson.Decimal128{}, fmt.Errorf("amount %s: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v bson.Decimal128) (decimal.Decimal, error) {
	h, l := v.GetBytes()
	if h == 0 && l == 0 {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored amount %s: %w", v.String(), err)
	}
	return d, nil
}

func (c cartDocument) toDomain(ownerID string) (*domcart.Cart, error) {
	cart := domcart.New(ownerID)
	for _, p := range c.Products {
		cart.LineItems = append(cart.LineItems, domcart.LineItem{
			ProductID: p.Product,
			Quantity:  p.Count,
		})
	}
	total, err := fromDecimal128(c.TotalAmount)
	if err != nil {
		return nil, err
	}
	cart.TotalAmount = total
	return cart, nil
}

func (c cartDocument) units() int64 {
	var n int64
	for _, p := range c.Products {
		n += p.Count
	}
	return n
}

// settled is the total the pipeline update leaves when applied to c: delta
// added to the stored total with unitsDelta units changing hands.
func (c cartDocument) settled(delta decimal.Decimal, unitsDelta int64) (decimal.Decimal, error) {
	total, err := fromDecimal128(c.TotalAmount)
	if err != nil {
		return decimal.Zero, err
	}
	return domcart.SettleTotal(total, delta, c.units()+unitsDelta), nil
}

func (c cartDocument) indexOf(productID int64) int {
	for i, p := range c.Products {
		if p.Product == productID {
			return i
		}
	}
	return -1
}

func emptyCartDocument() cartDocument {
	return cartDocument{
		Products:    []lineItemDocument{},
		TotalAmount: decimal128Zero,
	}
}

func (d *userDocument) toDomain() (*domuser.User, error) {
	id := d.ID.Hex()
	cart, err := d.Cart.toDomain(id)
	if err != nil {
		return nil, err
	}
	u := &domuser.User{
		ID:                id,
		Username:          d.Username,
		Email:             d.Email,
		PasswordHash:      d.Password,
		EmailVerified:     d.EmailVerified,
		AuthProvider:      domuser.AuthProvider(d.AuthProvider),
		RoleCode:          domuser.RoleCode(d.Role),
		ShippingAddresses: make([]domuser.Address, 0, len(d.ShippingAddresses)),
		Cart:              *cart,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	for _, a := range d.ShippingAddresses {
		u.ShippingAddresses = append(u.ShippingAddresses, a.toDomain())
	}
	return u, nil
}

func (a addressDocument) toDomain() domuser.Address {
	return domuser.Address{
		ID:          a.ID.Hex(),
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		Phone:       a.Phone,
		Country:     a.Country,
		City:        a.City,
		Zip:         a.Zip,
		Line1:       a.Line1,
		Line2:       a.Line2,
		Description: a.Description,
	}
}

func newAddressDocument(a domuser.Address) addressDocument {
	return addressDocument{
		ID:          bson.NewObjectID(),
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		Phone:       a.Phone,
		Country:     a.Country,
		City:        a.City,
		Zip:         a.Zip,
		Line1:       a.Line1,
		Line2:       a.Line2,
		Description: a.Description,
	}
}
