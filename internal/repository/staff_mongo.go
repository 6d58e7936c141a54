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

// StaffCollection is the MongoDB collection holding staff accounts.
const StaffCollection = "staffs"

type mongoStaff struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Phone       string             `bson:"phone"`
	Position    string             `bson:"position,omitempty"`
	Role        string             `bson:"role"`
	Password    string             `bson:"password"`
	IsSuspended bool               `bson:"isSuspended"`
	OTP         *string            `bson:"otp,omitempty"`
	OTPExpires  *time.Time         `bson:"otpExpires,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type mongoStaffRepository struct {
	coll *mongo.Collection
}

// NewMongoStaffRepository returns a MongoDB-backed StaffRepository.
func NewMongoStaffRepository(db *mongo.Database) StaffRepository {
	return &mongoStaffRepository{coll: db.Collection(StaffCollection)}
}

func (r *mongoStaffRepository) Create(ctx context.Context, staff *domain.StaffAccount) error {
	now := time.Now().UTC()
	doc := toMongoStaff(staff)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	staff.ID = doc.ID.Hex()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	return nil
}

func (r *mongoStaffRepository) SetOTP(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return r.updateFields(ctx, id, bson.M{"$set": bson.M{
		"otp":        hash,
		"otpExpires": expiresAt,
		"updatedAt":  time.Now().UTC(),
	}})
}

// ConsumeOTP unsets the code and reads the previous document in one round trip.
func (r *mongoStaffRepository) ConsumeOTP(ctx context.Context, id string) (string, time.Time, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", time.Time{}, ErrNotFound
	}
	update := bson.M{
		"$unset": bson.M{"otp": "", "otpExpires": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var prev mongoStaff
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&prev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", time.Time{}, ErrNotFound
		}
		return "", time.Time{}, fmt.Errorf("consume staff otp: %w", err)
	}
	if prev.OTP == nil || prev.OTPExpires == nil {
		return "", time.Time{}, ErrNoPendingOTP
	}
	return *prev.OTP, prev.OTPExpires.UTC(), nil
}

func (r *mongoStaffRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.updateFields(ctx, id, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *mongoStaffRepository) SetSuspended(ctx context.Context, id string, suspended bool) (*domain.StaffAccount, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"isSuspended": suspended,
		"updatedAt":   time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoStaff
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update staff suspension: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoStaffRepository) updateFields(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoStaffRepository) GetByID(ctx context.Context, id string) (*domain.StaffAccount, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoStaffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffAccount, error) {
	query := bson.M{}
	if filter.Role != nil {
		query["role"] = string(*filter.Role)
	}
	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find staff: %w", err)
	}
	defer cur.Close(ctx)

	var result []domain.StaffAccount
	for cur.Next(ctx) {
		var doc mongoStaff
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode staff: %w", err)
		}
		result = append(result, *doc.toDomain())
	}
	return result, cur.Err()
}

func (r *mongoStaffRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	return nil
}

func (r *mongoStaffRepository) findOne(ctx context.Context, filter bson.M) (*domain.StaffAccount, error) {
	var doc mongoStaff
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return doc.toDomain(), nil
}

func toMongoStaff(s *domain.StaffAccount) mongoStaff {
	return mongoStaff{
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Position:    s.Position,
		Role:        string(s.Role),
		Password:    s.PasswordHash,
		IsSuspended: s.IsSuspended,
		OTP:         s.OTPHash,
		OTPExpires:  s.OTPExpiresAt,
		CreatedAt:   s.CreatedAt,
	}
}

func (d mongoStaff) toDomain() *domain.StaffAccount {
	return &domain.StaffAccount{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Position:     d.Position,
		Role:         domain.StaffRole(d.Role),
		PasswordHash: d.Password,
		IsSuspended:  d.IsSuspended,
		OTPHash:      d.OTP,
		OTPExpiresAt: d.OTPExpires,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
