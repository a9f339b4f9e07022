package mongorepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/repo"
)

func (r *Repo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	if _, err := r.Users.InsertOne(ctx, toUserDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *Repo) getUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var d userDoc
	if err := r.Users.FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	return d.model(), nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, bson.M{"email": email})
}

func (r *Repo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getUser(ctx, bson.M{"_id": id.String()})
}

func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	return r.Users.CountDocuments(ctx, bson.M{})
}

func (r *Repo) SetUserRole(ctx context.Context, email string, role models.Role) error {
	res, err := r.Users.UpdateOne(ctx, bson.M{"email": email},
		bson.M{"$set": bson.M{"role": string(role), "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *Repo) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	_, err := r.RefreshTokens.InsertOne(ctx, refreshDoc{
		TokenHash: t.TokenHash,
		JTI:       t.JTI,
		UserID:    t.UserID.String(),
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
	})
	return err
}

// RotateRefreshToken revokes oldJTI with a single conditional update and
// stores next. A token that is missing, expired or already revoked yields
// ErrTokenRevoked.
func (r *Repo) RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error {
	res, err := r.RefreshTokens.UpdateOne(ctx,
		bson.M{"jti": oldJTI, "revoked": false, "expires_at": bson.M{"$gte": time.Now().Unix()}},
		bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return repo.ErrTokenRevoked
	}
	return r.SaveRefreshToken(ctx, next)
}

func (r *Repo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.RefreshTokens.UpdateMany(ctx, bson.M{"token_hash": tokenHash}, bson.M{"$set": bson.M{"revoked": true}})
	return err
}

