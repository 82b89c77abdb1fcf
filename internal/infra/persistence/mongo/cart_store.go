package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	domcart "example.com/storefront/internal/domain/cart"
)

// maxCASAttempts bounds the re-reads of a line item whose count changed
// between the read and the guarded update.
const maxCASAttempts = 5

var errContention = errors.New("line item kept changing under concurrent updates")

// CartStore keeps the cart embedded in the user document. Every mutation is a
// single-document update that moves the line item and cart.totalAmount
// together, so no reader ever sees one without the other. Updates that take
// money out of the cart run as pipelines that settle the total the way
// domcart.SettleTotal does.
type CartStore struct {
	users *mongo.Collection
	now   func() time.Time
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{
		users: db.Collection(usersCollection),
		now:   time.Now,
	}
}

func (s *CartStore) Get(ctx context.Context, ownerID string) (*domcart.Cart, error) {
	oid, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domcart.ErrCartNotFound
	}
	doc, err := s.load(ctx, oid)
	if err != nil {
		return nil, s.wrap("get", err)
	}
	c, err := doc.Cart.toDomain(ownerID)
	if err != nil {
		return nil, domcart.NewStorageError("get", err)
	}
	return c, nil
}

func (s *CartStore) AddLineItem(ctx context.Context, ownerID string, productID, quantity int64, unitPrice decimal.Decimal) (domcart.AddResult, error) {
	if err := domcart.ValidateAdd(productID, quantity, unitPrice); err != nil {
		return domcart.AddResult{}, err
	}
	oid, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return domcart.AddResult{}, domcart.ErrCartNotFound
	}

	delta, err := toDecimal128(domcart.LineAmount(quantity, unitPrice))
	if err != nil {
		return domcart.AddResult{}, domcart.NewStorageError("add line item", err)
	}
	after := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"cart": 1})

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		var doc cartProjection

		// Merge into the existing line while it has room.
		err := s.users.FindOneAndUpdate(ctx,
			bson.M{
				"_id": oid,
				"cart.products": bson.M{"$elemMatch": bson.M{
					"product": productID,
					"count":   bson.M{"$lte": domcart.MaxLineQuantity - quantity},
				}},
			},
			bson.M{
				"$inc": bson.M{"cart.products.$.count": quantity, "cart.totalAmount": delta},
				"$set": bson.M{"updatedAt": s.now()},
			},
			after,
		).Decode(&doc)
		if err == nil {
			return addResult(doc, productID, domcart.StatusDuplicated)
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return domcart.AddResult{}, domcart.NewStorageError("add line item", err)
		}

		// No line for the product yet: append one.
		err = s.users.FindOneAndUpdate(ctx,
			bson.M{"_id": oid, "cart.products.product": bson.M{"$ne": productID}},
			bson.M{
				"$push": bson.M{"cart.products": lineItemDocument{Product: productID, Count: quantity}},
				"$inc":  bson.M{"cart.totalAmount": delta},
				"$set":  bson.M{"updatedAt": s.now()},
			},
			after,
		).Decode(&doc)
		if err == nil {
			return addResult(doc, productID, domcart.StatusNew)
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return domcart.AddResult{}, domcart.NewStorageError("add line item", err)
		}

		// Neither filter matched: the owner is gone, the line is full, or a
		// concurrent request created or removed the line in between.
		current, err := s.lineItem(ctx, oid, productID)
		switch {
		case errors.Is(err, domcart.ErrLineItemNotFound):
		case err != nil:
			return domcart.AddResult{}, s.wrap("add line item", err)
		case current.Count > domcart.MaxLineQuantity-quantity:
			return domcart.AddResult{}, domcart.ErrQuantityLimit
		}
	}
	return domcart.AddResult{}, domcart.NewStorageError("add line item", errContention)
}

func (s *CartStore) RemoveLineItem(ctx context.Context, ownerID string, productID int64, unitPrice decimal.Decimal) (domcart.RemoveResult, error) {
	if err := domcart.ValidateRemove(productID, unitPrice); err != nil {
		return domcart.RemoveResult{}, err
	}
	oid, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return domcart.RemoveResult{}, domcart.ErrCartNotFound
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		current, err := s.lineItem(ctx, oid, productID)
		if err != nil {
			return domcart.RemoveResult{}, s.wrap("remove line item", err)
		}

		delta := domcart.LineAmount(current.Count, unitPrice).Neg()
		update, err := s.settledUpdate(withoutLine(productID), delta)
		if err != nil {
			return domcart.RemoveResult{}, domcart.NewStorageError("remove line item", err)
		}
		before, err := s.guardedUpdate(ctx, oid, current, update)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return domcart.RemoveResult{}, domcart.NewStorageError("remove line item", err)
		}

		total, err := before.Cart.settled(delta, -current.Count)
		if err != nil {
			return domcart.RemoveResult{}, domcart.NewStorageError("remove line item", err)
		}
		return domcart.RemoveResult{
			ProductID:       productID,
			Index:           before.Cart.indexOf(productID),
			RemovedQuantity: current.Count,
			TotalAmount:     total,
		}, nil
	}
	return domcart.RemoveResult{}, domcart.NewStorageError("remove line item", errContention)
}

func (s *CartStore) AdjustQuantity(ctx context.Context, ownerID string, productID, newQuantity int64, unitPrice decimal.Decimal) (domcart.AdjustResult, error) {
	if err := domcart.ValidateAdjust(productID, newQuantity, unitPrice); err != nil {
		return domcart.AdjustResult{}, err
	}
	oid, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return domcart.AdjustResult{}, domcart.ErrCartNotFound
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		current, err := s.lineItem(ctx, oid, productID)
		if err != nil {
			return domcart.AdjustResult{}, s.wrap("adjust quantity", err)
		}

		delta := domcart.LineAmount(newQuantity-current.Count, unitPrice)
		update, err := s.settledUpdate(withCount(productID, newQuantity), delta)
		if err != nil {
			return domcart.AdjustResult{}, domcart.NewStorageError("adjust quantity", err)
		}
		before, err := s.guardedUpdate(ctx, oid, current, update)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return domcart.AdjustResult{}, domcart.NewStorageError("adjust quantity", err)
		}

		total, err := before.Cart.settled(delta, newQuantity-current.Count)
		if err != nil {
			return domcart.AdjustResult{}, domcart.NewStorageError("adjust quantity", err)
		}
		return domcart.AdjustResult{
			ProductID:   productID,
			Index:       before.Cart.indexOf(productID),
			Quantity:    newQuantity,
			TotalAmount: total,
		}, nil
	}
	return domcart.AdjustResult{}, domcart.NewStorageError("adjust quantity", errContention)
}

// Consume takes ordered lines out of the cart one guarded update at a time.
// Units a concurrent request added after checkout read the cart stay behind.
func (s *CartStore) Consume(ctx context.Context, ownerID string, lines []domcart.ConsumedLine) (*domcart.Cart, error) {
	oid, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domcart.ErrCartNotFound
	}
	for _, line := range lines {
		if err := s.consumeLine(ctx, oid, line); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, ownerID)
}

func (s *CartStore) consumeLine(ctx context.Context, oid bson.ObjectID, line domcart.ConsumedLine) error {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		current, err := s.lineItem(ctx, oid, line.ProductID)
		if errors.Is(err, domcart.ErrLineItemNotFound) {
			return nil
		}
		if err != nil {
			return s.wrap("consume", err)
		}

		products := withCount(line.ProductID, current.Count-line.Quantity)
		if current.Count <= line.Quantity {
			products = withoutLine(line.ProductID)
		}
		taken := min(current.Count, line.Quantity)
		update, err := s.settledUpdate(products, domcart.LineAmount(taken, line.UnitPrice).Neg())
		if err != nil {
			return domcart.NewStorageError("consume", err)
		}

		_, err = s.guardedUpdate(ctx, oid, current, update)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return domcart.NewStorageError("consume", err)
		}
		return nil
	}
	return domcart.NewStorageError("consume", errContention)
}

// guardedUpdate applies update only while the line still holds the count that
// was read, and returns the document as it was before the update.
func (s *CartStore) guardedUpdate(ctx context.Context, oid bson.ObjectID, current lineItemDocument, update any) (cartProjection, error) {
	var before cartProjection
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{
			"_id": oid,
			"cart.products": bson.M{"$elemMatch": bson.M{
				"product": current.Product,
				"count":   current.Count,
			}},
		},
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.Before).
			SetProjection(bson.M{"cart": 1}),
	).Decode(&before)
	return before, err
}

// settledUpdate is a pipeline that replaces cart.products with the products
// expression and then moves cart.totalAmount by delta: zero once no units
// are left, never below zero otherwise.
func (s *CartStore) settledUpdate(products bson.M, delta decimal.Decimal) (mongo.Pipeline, error) {
	d, err := toDecimal128(delta)
	if err != nil {
		return nil, err
	}
	total := bson.M{"$cond": bson.A{
		bson.M{"$lte": bson.A{bson.M{"$sum": "$cart.products.count"}, 0}},
		decimal128Zero,
		bson.M{"$max": bson.A{decimal128Zero, bson.M{"$add": bson.A{"$cart.totalAmount", d}}}},
	}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"cart.products": products, "updatedAt": s.now()}}},
		{{Key: "$set", Value: bson.M{"cart.totalAmount": total}}},
	}, nil
}

func withoutLine(productID int64) bson.M {
	return bson.M{"$filter": bson.M{
		"input": "$cart.products",
		"cond":  bson.M{"$ne": bson.A{"$$this.product", productID}},
	}}
}

func withCount(productID, count int64) bson.M {
	return bson.M{"$map": bson.M{
		"input": "$cart.products",
		"in": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$$this.product", productID}},
			bson.M{"$mergeObjects": bson.A{"$$this", bson.M{"count": count}}},
			"$$this",
		}},
	}}
}

func (s *CartStore) lineItem(ctx context.Context, oid bson.ObjectID, productID int64) (lineItemDocument, error) {
	doc, err := s.load(ctx, oid)
	if err != nil {
		return lineItemDocument{}, err
	}
	i := doc.Cart.indexOf(productID)
	if i < 0 {
		return lineItemDocument{}, domcart.ErrLineItemNotFound
	}
	return doc.Cart.Products[i], nil
}

func (s *CartStore) load(ctx context.Context, oid bson.ObjectID) (cartProjection, error) {
	var doc cartProjection
	err := s.users.FindOne(ctx,
		bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"cart": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, domcart.ErrCartNotFound
	}
	return doc, err
}

// wrap passes domain errors through and turns driver errors into storage
// errors.
func (s *CartStore) wrap(op string, err error) error {
	if errors.Is(err, domcart.ErrCartNotFound) || errors.Is(err, domcart.ErrLineItemNotFound) {
		return err
	}
	return domcart.NewStorageError(op, err)
}

func addResult(doc cartProjection, productID int64, status domcart.Discriminator) (domcart.AddResult, error) {
	i := doc.Cart.indexOf(productID)
	if i < 0 {
		return domcart.AddResult{}, domcart.NewStorageError("add line item", errors.New("updated document lacks the line item"))
	}
	total, err := fromDecimal128(doc.Cart.TotalAmount)
	if err != nil {
		return domcart.AddResult{}, domcart.NewStorageError("add line item", err)
	}
	return domcart.AddResult{
		Status:      status,
		ProductID:   productID,
		Quantity:    doc.Cart.Products[i].Count,
		TotalAmount: total,
	}, nil
}
