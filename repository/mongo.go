package repository

import (
	"context"
	"errors"
	"fmt"

	"civicreport-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	issuesCollection = "issues"
	usersCollection  = "users"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

type MongoIssues struct {
	coll *mongo.Collection
}

func NewMongoIssues(db *mongo.Database) *MongoIssues {
	return &MongoIssues{coll: db.Collection(issuesCollection)}
}

// issueFilterBSON translates the policy filter into a Mongo query.
func issueFilterBSON(f models.IssueFilter) bson.M {
	filter := bson.M{}
	if f.User != nil {
		filter["user"] = *f.User
	}
	if f.Specialization != "" {
		filter["specialization"] = f.Specialization
	}
	if f.StatusNot != "" {
		filter["status"] = bson.M{"$ne": f.StatusNot}
	}
	return filter
}

func (r *MongoIssues) Create(ctx context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, issue); err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (r *MongoIssues) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find issue %s: %w", id.Hex(), err)
	}
	return &issue, nil
}

func (r *MongoIssues) Query(ctx context.Context, f models.IssueFilter) ([]models.Issue, error) {
	cursor, err := r.coll.Find(ctx, issueFilterBSON(f), options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return issues, nil
}

// Save replaces the whole document. Concurrent writers race and the last
// one wins.
func (r *MongoIssues) Save(ctx context.Context, issue *models.Issue) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": issue.ID}, issue)
	if err != nil {
		return fmt.Errorf("save issue %s: %w", issue.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoIssues) Delete(ctx context.Context, issue *models.Issue) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": issue.ID})
	if err != nil {
		return fmt.Errorf("delete issue %s: %w", issue.ID.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoUsers struct {
	coll *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{coll: db.Collection(usersCollection)}
}

func (r *MongoUsers) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// EnsureIndexes creates the unique user keys and the issue query indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	issueIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "specialization", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := db.Collection(issuesCollection).Indexes().CreateMany(ctx, issueIndexes); err != nil {
		return fmt.Errorf("issue indexes: %w", err)
	}
	return nil
}
