package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	dom "example.com/storefront/internal/domain/user"
)

type UserRepository struct {
	users *mongo.Collection
	now   func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users: db.Collection(usersCollection),
		now:   time.Now,
	}
}

// Create inserts u with an empty cart and a customer role when none is set.
func (r *UserRepository) Create(ctx context.Context, u *dom.User) (*dom.User, error) {
	now := r.now().UTC()
	role := u.RoleCode
	if role == "" {
		role = dom.RoleCodeCustomer
	}
	provider := u.AuthProvider
	if provider == "" {
		provider = dom.ProviderLocal
	}

	doc := userDocument{
		ID:                bson.NewObjectID(),
		Username:          u.Username,
		Email:             u.Email,
		Password:          u.PasswordHash,
		EmailVerified:     u.EmailVerified,
		AuthProvider:      string(provider),
		Role:              string(role),
		ShippingAddresses: []addressDocument{},
		Cart:              emptyCartDocument(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, dom.ErrEmailAlreadyUsed
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*dom.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, dom.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*dom.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) List(ctx context.Context, filter dom.ListUsersFilter) ([]*dom.User, error) {
	query := bson.M{}
	if filter.RoleCode != nil {
		query["role"] = string(*filter.RoleCode)
	}

	cur, err := r.users.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*dom.User
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		u, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, cur.Err()
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role dom.RoleCode) (*dom.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, dom.ErrUserNotFound
	}
	return r.findOneAndUpdate(ctx, oid, bson.M{
		"$set": bson.M{"role": string(role), "updatedAt": r.now().UTC()},
	})
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"emailVerified": true, "updatedAt": r.now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return dom.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) AddShippingAddress(ctx context.Context, id string, addr dom.Address) (*dom.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, dom.ErrUserNotFound
	}
	return r.findOneAndUpdate(ctx, oid, bson.M{
		"$push": bson.M{"shippingAddresses": newAddressDocument(addr)},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	})
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return dom.ErrUserNotFound
	}
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return dom.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*dom.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dom.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, oid bson.ObjectID, update bson.M) (*dom.User, error) {
	var doc userDocument
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dom.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}
