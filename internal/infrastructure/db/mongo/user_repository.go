package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentflow/auth-service/internal/core/domain"
)

const (
	usersCollection = "users"
	emailIndexName  = "uniq_email"
)

// UserRepository implements ports.UserRepository on a MongoDB collection.
// Email uniqueness is enforced by the uniq_email index; call EnsureIndexes
// before serving traffic.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type userDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password_hash"`
	FullName          string             `bson:"full_name,omitempty"`
	PhoneNumber       string             `bson:"phone_number,omitempty"`
	Role              string             `bson:"role"`
	ProfessionalTitle string             `bson:"professional_title,omitempty"`
	Skills            string             `bson:"skills,omitempty"`
	PortfolioURL      string             `bson:"portfolio_url,omitempty"`
	Bio               string             `bson:"bio,omitempty"`
	CompanyName       string             `bson:"company_name,omitempty"`
	AdminCode         string             `bson:"admin_code,omitempty"`
	Department        string             `bson:"department,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

// EnsureIndexes creates the unique email index. It is idempotent.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})
	if err != nil {
		return fmt.Errorf("create %s index: %w", emailIndexName, err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := toDocument(user)
	doc.Email = domain.NormalizeEmail(doc.Email)

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		FullName:          u.FullName,
		PhoneNumber:       u.PhoneNumber,
		Role:              u.Role.String(),
		ProfessionalTitle: u.ProfessionalTitle,
		Skills:            u.Skills,
		PortfolioURL:      u.PortfolioURL,
		Bio:               u.Bio,
		CompanyName:       u.CompanyName,
		AdminCode:         u.AdminCode,
		Department:        u.Department,
		CreatedAt:         u.CreatedAt.UTC(),
		UpdatedAt:         u.UpdatedAt.UTC(),
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:                d.ID.Hex(),
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		FullName:          d.FullName,
		PhoneNumber:       d.PhoneNumber,
		Role:              domain.Role(d.Role),
		ProfessionalTitle: d.ProfessionalTitle,
		Skills:            d.Skills,
		PortfolioURL:      d.PortfolioURL,
		Bio:               d.Bio,
		CompanyName:       d.CompanyName,
		AdminCode:         d.AdminCode,
		Department:        d.Department,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}
