package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	dom "example.com/storefront/internal/domain/comment"
)

const commentsCollection = "comments"

type authorDocument struct {
	UserID   string `bson:"userId"`
	Username string `bson:"username"`
}

type commentDocument struct {
	ID               bson.ObjectID  `bson:"_id,omitempty"`
	ProductID        int64          `bson:"productId"`
	Customer         authorDocument `bson:"customer"`
	Title            string         `bson:"title"`
	Rate             int            `bson:"rate"`
	Content          string         `bson:"content"`
	Origin           string         `bson:"origin,omitempty"`
	Likes            []string       `bson:"likes"`
	VerifiedPurchase bool           `bson:"verifiedPurchase"`
	CreatedAt        time.Time      `bson:"createdAt"`
}

func (d commentDocument) toDomain() *dom.Comment {
	likes := d.Likes
	if likes == nil {
		likes = []string{}
	}
	return &dom.Comment{
		ID:               d.ID.Hex(),
		ProductID:        d.ProductID,
		Author:           dom.Author{UserID: d.Customer.UserID, Username: d.Customer.Username},
		Title:            d.Title,
		Rate:             d.Rate,
		Content:          d.Content,
		Origin:           d.Origin,
		Likes:            likes,
		VerifiedPurchase: d.VerifiedPurchase,
		CreatedAt:        d.CreatedAt,
	}
}

type CommentRepository struct {
	comments *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{comments: db.Collection(commentsCollection)}
}

func (r *CommentRepository) Create(ctx context.Context, c *dom.Comment) (*dom.Comment, error) {
	doc := commentDocument{
		ID:               bson.NewObjectID(),
		ProductID:        c.ProductID,
		Customer:         authorDocument{UserID: c.Author.UserID, Username: c.Author.Username},
		Title:            c.Title,
		Rate:             c.Rate,
		Content:          c.Content,
		Origin:           c.Origin,
		Likes:            []string{},
		VerifiedPurchase: c.VerifiedPurchase,
		CreatedAt:        c.CreatedAt,
	}
	if _, err := r.comments.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return dom.ErrCommentNotFound
	}
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return dom.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*dom.Comment, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, dom.ErrCommentNotFound
	}
	var doc commentDocument
	if err := r.comments.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dom.ErrCommentNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Comment, error) {
	query := bson.M{"productId": filter.ProductID}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query["$or"] = bson.A{bson.M{"title": pattern}, bson.M{"content": pattern}}
	}

	cur, err := r.comments.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := []*dom.Comment{}
	for cur.Next(ctx) {
		var doc commentDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		comments = append(comments, doc.toDomain())
	}
	return comments, cur.Err()
}

// ToggleLike removes userID from likes when present and appends it
// otherwise, inside one pipeline update.
func (r *CommentRepository) ToggleLike(ctx context.Context, id, userID string) (*dom.Comment, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, dom.ErrCommentNotFound
	}
	likes := bson.M{"$cond": bson.A{
		bson.M{"$in": bson.A{userID, "$likes"}},
		bson.M{"$filter": bson.M{
			"input": "$likes",
			"cond":  bson.M{"$ne": bson.A{"$$this", userID}},
		}},
		bson.M{"$concatArrays": bson.A{"$likes", bson.A{userID}}},
	}}

	var doc commentDocument
	err = r.comments.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		mongo.Pipeline{{{Key: "$set", Value: bson.M{"likes": likes}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dom.ErrCommentNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Ratings counts comments per rate on the server and averages them here so
// the mean is exact.
func (r *CommentRepository) Ratings(ctx context.Context, productID int64) (dom.RatingSummary, error) {
	summary := dom.RatingSummary{ProductID: productID, Average: decimal.Zero}
	cur, err := r.comments.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": productID}}},
		{{Key: "$group", Value: bson.M{"_id": "$rate", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return summary, err
	}
	defer cur.Close(ctx)

	var sum int64
	for cur.Next(ctx) {
		var bucket struct {
			Rate  int   `bson:"_id"`
			Count int64 `bson:"count"`
		}
		if err := cur.Decode(&bucket); err != nil {
			return summary, err
		}
		if bucket.Rate < 0 || bucket.Rate > dom.MaxRate {
			continue
		}
		summary.Histogram[bucket.Rate] = bucket.Count
		summary.Count += bucket.Count
		sum += int64(bucket.Rate) * bucket.Count
	}
	if err := cur.Err(); err != nil {
		return summary, err
	}
	if summary.Count > 0 {
		summary.Average = decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(summary.Count), 2)
	}
	return summary, nil
}

// containsPattern matches term literally anywhere in a field, ignoring case.
func containsPattern(term string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}
