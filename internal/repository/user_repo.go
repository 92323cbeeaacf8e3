package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitfusion-users/internal/domain"
)

const usersCollection = "users"

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateByID(ctx context.Context, id string, patch map[string]any) (domain.User, error)
	DeleteByID(ctx context.Context, id string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// MongoUserRepository implementa UserRepository sobre una colección de Mongo.
type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(usersCollection)}
}

// EnsureUserIndexes crea el índice único sobre email. Se invoca al arrancar,
// después de conectar a Mongo; el índice es la garantía autoritativa de
// unicidad frente a registros concurrentes.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	col := db.Collection(usersCollection)

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_email_unique").SetUnique(true),
	}
	_, err := col.Indexes().CreateOne(ctx, model)
	return err
}

func (r *MongoUserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, err
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, err
}

// UpdateByID aplica el patch como $set y devuelve el documento ya actualizado.
// Un id inexistente se reporta como mongo.ErrNoDocuments, no como error interno.
func (r *MongoUserRepository) UpdateByID(ctx context.Context, id string, patch map[string]any) (domain.User, error) {
	set := bson.M{}
	for k, v := range patch {
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u domain.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	return u, err
}

func (r *MongoUserRepository) DeleteByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&u)
	return u, err
}

func (r *MongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []domain.User{}
	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, cur.Err()
}
