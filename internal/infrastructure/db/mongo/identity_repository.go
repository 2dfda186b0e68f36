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

	"github.com/staffdesk/admin-panel/internal/core/domain"
)

// collectionFor maps a role to its backing collection. Each role has its own
// collection, so the unique indexes on username and email hold per role.
func collectionFor(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "admins"
	case domain.RoleManager:
		return "managers"
	default:
		return "employees"
	}
}

type IdentityRepository struct {
	db *mongo.Database
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{db: db}
}

type identityDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Phone        string             `bson:"phone"`
	Image        string             `bson:"image,omitempty"`
	IsActive     bool               `bson:"is_active"`
	LastLogin    time.Time          `bson:"last_login,omitempty"`

	ResetCode       string    `bson:"reset_code,omitempty"`
	ResetCodeExpire time.Time `bson:"reset_code_expire,omitempty"`

	ResetTokenHash   string    `bson:"reset_token_hash,omitempty"`
	ResetTokenExpire time.Time `bson:"reset_token_expire,omitempty"`

	Department       string   `bson:"department,omitempty"`
	ManagedEmployees []string `bson:"managed_employees,omitempty"`

	Position       string    `bson:"position,omitempty"`
	EmployeeID     string    `bson:"employee_id,omitempty"`
	Salary         float64   `bson:"salary,omitempty"`
	JoiningDate    time.Time `bson:"joining_date,omitempty"`
	ManagedBy      string    `bson:"managed_by,omitempty"`
	CreatedByModel string    `bson:"created_by_model,omitempty"`

	CreatedBy string    `bson:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toDoc(i *domain.Identity) *identityDoc {
	return &identityDoc{
		Username:         i.Username,
		Email:            i.Email,
		PasswordHash:     i.PasswordHash,
		Phone:            i.Phone,
		Image:            i.Image,
		IsActive:         i.IsActive,
		LastLogin:        i.LastLogin,
		ResetCode:        i.ResetCode,
		ResetCodeExpire:  i.ResetCodeExpire,
		ResetTokenHash:   i.ResetTokenHash,
		ResetTokenExpire: i.ResetTokenExpire,
		Department:       i.Department,
		ManagedEmployees: i.ManagedEmployees,
		Position:         i.Position,
		EmployeeID:       i.EmployeeID,
		Salary:           i.Salary,
		JoiningDate:      i.JoiningDate,
		ManagedBy:        i.ManagedBy,
		CreatedByModel:   string(i.CreatedByModel),
		CreatedBy:        i.CreatedBy,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func (d *identityDoc) toDomain(role domain.Role) *domain.Identity {
	return &domain.Identity{
		ID:               d.ID.Hex(),
		Username:         d.Username,
		Email:            d.Email,
		PasswordHash:     d.PasswordHash,
		Phone:            d.Phone,
		Role:             role,
		Image:            d.Image,
		IsActive:         d.IsActive,
		LastLogin:        d.LastLogin,
		ResetCode:        d.ResetCode,
		ResetCodeExpire:  d.ResetCodeExpire,
		ResetTokenHash:   d.ResetTokenHash,
		ResetTokenExpire: d.ResetTokenExpire,
		Department:       d.Department,
		ManagedEmployees: d.ManagedEmployees,
		Position:         d.Position,
		EmployeeID:       d.EmployeeID,
		Salary:           d.Salary,
		JoiningDate:      d.JoiningDate,
		ManagedBy:        d.ManagedBy,
		CreatedByModel:   domain.CreatorModel(d.CreatedByModel),
		CreatedBy:        d.CreatedBy,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (r *IdentityRepository) col(role domain.Role) *mongo.Collection {
	return r.db.Collection(collectionFor(role))
}

func (r *IdentityRepository) findOne(ctx context.Context, role domain.Role, filter bson.M, opts ...*options.FindOneOptions) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	err := r.col(role).FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.toDomain(role), nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, role domain.Role, email string) (*domain.Identity, error) {
	return r.findOne(ctx, role, bson.M{"email": email})
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, role domain.Role, username string) (*domain.Identity, error) {
	return r.findOne(ctx, role, bson.M{"username": username})
}

func (r *IdentityRepository) FindByID(ctx context.Context, role domain.Role, id string, includeSecret bool) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}
	var opts []*options.FindOneOptions
	if !includeSecret {
		opts = append(opts, options.FindOne().SetProjection(bson.M{"password_hash": 0}))
	}
	return r.findOne(ctx, role, bson.M{"_id": oid}, opts...)
}

func (r *IdentityRepository) FindByResetTokenHash(ctx context.Context, role domain.Role, hash string) (*domain.Identity, error) {
	return r.findOne(ctx, role, bson.M{"reset_token_hash": hash})
}

func (r *IdentityRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*domain.Identity, error) {
	return r.findOne(ctx, domain.RoleEmployee, bson.M{"employee_id": employeeID})
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDoc(identity)
	res, err := r.col(identity.Role).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	created := *identity
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *IdentityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(identity.ID)
	if err != nil {
		return domain.ErrIdentityNotFound
	}

	doc := toDoc(identity)
	doc.ID = oid
	res, err := r.col(identity.Role).ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIdentity
		}
		return fmt.Errorf("update identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) count(ctx context.Context, role domain.Role, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col(role).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return n, nil
}

func (r *IdentityRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	return r.count(ctx, role, bson.M{})
}

func (r *IdentityRepository) CountActiveByRole(ctx context.Context, role domain.Role) (int64, error) {
	return r.count(ctx, role, bson.M{"is_active": true})
}

func (r *IdentityRepository) CountLoginsSince(ctx context.Context, role domain.Role, since time.Time) (int64, error) {
	return r.count(ctx, role, bson.M{"last_login": bson.M{"$gte": since}})
}

func (r *IdentityRepository) CountUnmanagedEmployees(ctx context.Context) (int64, error) {
	return r.count(ctx, domain.RoleEmployee, bson.M{
		"$or": bson.A{
			bson.M{"managed_by": bson.M{"$exists": false}},
			bson.M{"managed_by": ""},
		},
	})
}

func (r *IdentityRepository) find(ctx context.Context, role domain.Role, filter bson.M) ([]*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"password_hash": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.col(role).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Identity
	for cur.Next(ctx) {
		var doc identityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode identity: %w", err)
		}
		out = append(out, doc.toDomain(role))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return out, nil
}

func (r *IdentityRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Identity, error) {
	return r.find(ctx, role, bson.M{})
}

func managedScope(managerID, department string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"managed_by": managerID},
		bson.M{"department": department},
	}}
}

func (r *IdentityRepository) ListManagedEmployees(ctx context.Context, managerID, department string) ([]*domain.Identity, error) {
	return r.find(ctx, domain.RoleEmployee, managedScope(managerID, department))
}

func (r *IdentityRepository) FindManagedEmployee(ctx context.Context, id, managerID, department string) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}
	filter := managedScope(managerID, department)
	filter["_id"] = oid
	opts := options.FindOne().SetProjection(bson.M{"password_hash": 0})
	return r.findOne(ctx, domain.RoleEmployee, filter, opts)
}

func (r *IdentityRepository) AddManagedEmployee(ctx context.Context, managerID, employeeID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(managerID)
	if err != nil {
		return domain.ErrIdentityNotFound
	}

	res, err := r.col(domain.RoleManager).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"managed_employees": employeeID}},
	)
	if err != nil {
		return fmt.Errorf("add managed employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func uniqueIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

func employeeIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// employee_id is optional and omitted from the doc when empty, so
		// the unique index must be sparse or every second record without
		// one would collide on the null key.
		{Keys: bson.D{{Key: "employee_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "managed_by", Value: 1}}},
		{Keys: bson.D{{Key: "department", Value: 1}}},
	}
}

// EnsureIndexes creates the unique username/email indexes on every role
// collection and the lookup indexes the reset and reporting queries rely on.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee} {
		if _, err := r.col(role).Indexes().CreateMany(ctx, uniqueIndexes()); err != nil {
			return fmt.Errorf("create indexes for %s: %w", role, err)
		}
	}

	if _, err := r.col(domain.RoleEmployee).Indexes().CreateMany(ctx, employeeIndexes()); err != nil {
		return fmt.Errorf("create employee indexes: %w", err)
	}
	return nil
}
