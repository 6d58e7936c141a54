package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/membership-hub/membership-service/internal/domain"
)

// MemberCollection is the MongoDB collection holding member records.
const MemberCollection = "members"

type mongoMember struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Phone            string             `bson:"phone"`
	Address          string             `bson:"address,omitempty"`
	Gender           string             `bson:"gender"`
	DateOfBirth      *time.Time         `bson:"dateOfBirth,omitempty"`
	MembershipStatus string             `bson:"membershipStatus"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

type mongoMemberRepository struct {
	coll *mongo.Collection
}

// NewMongoMemberRepository returns a MongoDB-backed MemberRepository.
func NewMongoMemberRepository(db *mongo.Database) MemberRepository {
	return &mongoMemberRepository{coll: db.Collection(MemberCollection)}
}

func (r *mongoMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	now := time.Now().UTC()
	doc := toMongoMember(member)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert member: %w", err)
	}
	member.ID = doc.ID.Hex()
	member.CreatedAt = now
	member.UpdatedAt = now
	return nil
}

func (r *mongoMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	oid, err := primitive.ObjectIDFromHex(member.ID)
	if err != nil {
		return ErrNotFound
	}
	doc := toMongoMember(member)
	doc.ID = oid
	doc.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update member: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	member.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *mongoMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc mongoMember
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoMemberRepository) List(ctx context.Context, filter MemberFilter) ([]domain.Member, error) {
	query := bson.M{}
	if filter.WithDateOfBirth {
		query["dateOfBirth"] = bson.M{"$exists": true, "$ne": nil}
	}
	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find members: %w", err)
	}
	defer cur.Close(ctx)

	var result []domain.Member
	for cur.Next(ctx) {
		var doc mongoMember
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		result = append(result, *doc.toDomain())
	}
	return result, cur.Err()
}

func (r *mongoMemberRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func toMongoMember(m *domain.Member) mongoMember {
	return mongoMember{
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		Address:          m.Address,
		Gender:           m.Gender,
		DateOfBirth:      m.DateOfBirth,
		MembershipStatus: m.MembershipStatus,
		CreatedAt:        m.CreatedAt,
	}
}

func (d mongoMember) toDomain() *domain.Member {
	return &domain.Member{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		Phone:            d.Phone,
		Address:          d.Address,
		Gender:           d.Gender,
		DateOfBirth:      d.DateOfBirth,
		MembershipStatus: d.MembershipStatus,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}
