package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	dom "example.com/storefront/internal/domain/question"
)

const questionsCollection = "questions"

type answerDocument struct {
	ID        bson.ObjectID  `bson:"_id"`
	User      authorDocument `bson:"user"`
	Content   string         `bson:"content"`
	CreatedAt time.Time      `bson:"createdAt"`
}

type voteDocument struct {
	UserID string `bson:"userId"`
	Value  int    `bson:"value"`
}

type questionDocument struct {
	ID        bson.ObjectID    `bson:"_id,omitempty"`
	ProductID int64            `bson:"productId"`
	User      authorDocument   `bson:"user"`
	Question  string           `bson:"question"`
	Answers   []answerDocument `bson:"answers"`
	Votes     []voteDocument   `bson:"votes"`
	CreatedAt time.Time        `bson:"createdAt"`
}

func (d questionDocument) toDomain() *dom.Question {
	q := &dom.Question{
		ID:        d.ID.Hex(),
		ProductID: d.ProductID,
		Author:    dom.Author{UserID: d.User.UserID, Username: d.User.Username},
		Text:      d.Question,
		Answers:   make([]dom.Answer, 0, len(d.Answers)),
		Votes:     make([]dom.Vote, 0, len(d.Votes)),
		CreatedAt: d.CreatedAt,
	}
	for _, a := range d.Answers {
		q.Answers = append(q.Answers, dom.Answer{
			ID:        a.ID.Hex(),
			Author:    dom.Author{UserID: a.User.UserID, Username: a.User.Username},
			Content:   a.Content,
			CreatedAt: a.CreatedAt,
		})
	}
	for _, v := range d.Votes {
		q.Votes = append(q.Votes, dom.Vote{UserID: v.UserID, Value: v.Value})
	}
	return q
}

type QuestionRepository struct {
	questions *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{questions: db.Collection(questionsCollection)}
}

func (r *QuestionRepository) Create(ctx context.Context, q *dom.Question) (*dom.Question, error) {
	doc := questionDocument{
		ID:        bson.NewObjectID(),
		ProductID: q.ProductID,
		User:      authorDocument{UserID: q.Author.UserID, Username: q.Author.Username},
		Question:  q.Text,
		Answers:   []answerDocument{},
		Votes:     []voteDocument{},
		CreatedAt: q.CreatedAt,
	}
	if _, err := r.questions.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return dom.ErrQuestionNotFound
	}
	res, err := r.questions.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return dom.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*dom.Question, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, dom.ErrQuestionNotFound
	}
	var doc questionDocument
	if err := r.questions.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dom.ErrQuestionNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *QuestionRepository) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Question, error) {
	query := bson.M{}
	if filter.ProductID != nil {
		query["productId"] = *filter.ProductID
	}
	if filter.Search != "" {
		query["question"] = containsPattern(filter.Search)
	}

	cur, err := r.questions.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	questions := []*dom.Question{}
	for cur.Next(ctx) {
		var doc questionDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		questions = append(questions, doc.toDomain())
	}
	return questions, cur.Err()
}

func (r *QuestionRepository) AddAnswer(ctx context.Context, id string, a dom.Answer) (*dom.Question, error) {
	return r.update(ctx, id, bson.M{"$push": bson.M{"answers": answerDocument{
		ID:        bson.NewObjectID(),
		User:      authorDocument{UserID: a.Author.UserID, Username: a.Author.Username},
		Content:   a.Content,
		CreatedAt: a.CreatedAt,
	}}})
}

// Vote rewrites the votes array in one pipeline update: the user's earlier
// vote is dropped, and the new one is appended unless it repeats the
// dropped value.
func (r *QuestionRepository) Vote(ctx context.Context, id, userID string, value int) (*dom.Question, error) {
	byUser := func(op string) bson.M {
		return bson.M{"$filter": bson.M{
			"input": "$votes",
			"cond":  bson.M{op: bson.A{"$$this.userId", userID}},
		}}
	}
	votes := bson.M{"$let": bson.M{
		"vars": bson.M{"mine": byUser("$eq"), "others": byUser("$ne")},
		"in": bson.M{"$cond": bson.A{
			bson.M{"$in": bson.A{value, "$$mine.value"}},
			"$$others",
			bson.M{"$concatArrays": bson.A{"$$others", bson.A{bson.M{"userId": userID, "value": value}}}},
		}},
	}}
	return r.update(ctx, id, mongo.Pipeline{{{Key: "$set", Value: bson.M{"votes": votes}}}})
}

func (r *QuestionRepository) update(ctx context.Context, id string, update any) (*dom.Question, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, dom.ErrQuestionNotFound
	}
	var doc questionDocument
	err = r.questions.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dom.ErrQuestionNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}
