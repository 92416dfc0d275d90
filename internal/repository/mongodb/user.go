package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type userDocument struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	EmployeeID      string        `bson:"employee_id"`
	Email           string        `bson:"email"`
	PasswordHash    string        `bson:"password_hash"`
	Role            string        `bson:"role"`
	IsEmailVerified bool          `bson:"is_email_verified"`
	CreatedAt       time.Time     `bson:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at"`
}

func (d userDocument) toDomain() user.User {
	return user.User{
		ID:              d.ID.Hex(),
		EmployeeID:      d.EmployeeID,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		Role:            user.Role(d.Role),
		IsEmailVerified: d.IsEmailVerified,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) user.UserRepository {
	return &userRepository{collection: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:              bson.NewObjectID(),
		EmployeeID:      u.EmployeeID,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Role:            string(u.Role),
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		switch {
		case duplicateKeyOn(err, "uq_users_email"):
			return user.User{}, user.ErrUserEmailExists
		case duplicateKeyOn(err, "uq_users_employee_id"):
			return user.User{}, user.ErrEmployeeIDExists
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (user.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return doc.toDomain(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return user.User{}, user.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role user.Role) error {
	oid, err := objectID(id)
	if err != nil {
		return user.ErrUserNotFound
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"role": string(role), "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
