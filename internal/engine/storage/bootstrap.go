package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/go-arcade/orgman/pkg/ctx"
)

// Bootstrap creates the unique indexes the business rules rely on. The logic
// tier validates name and telephone uniqueness with a read before the insert;
// the indexes turn the remaining read-then-write race into a storage error on
// the second insert instead of a duplicate document.
func Bootstrap(appCtx *ctx.Context) error {
	opCtx, cancel := context.WithTimeout(appCtx.GetCtx(), 30*time.Second)
	defer cancel()

	mongoIns := appCtx.GetMongoIns()

	organizationIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "telephone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := mongoIns.GetCollection(collectionOrganization).Indexes().CreateMany(opCtx, organizationIndexes); err != nil {
		return fmt.Errorf("failed to create organization indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "organizations.organization_id", Value: 1}},
		},
	}
	if _, err := mongoIns.GetCollection(collectionUser).Indexes().CreateMany(opCtx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	invitationIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "organization_id", Value: 1}},
		},
	}
	if _, err := mongoIns.GetCollection(collectionInvitation).Indexes().CreateMany(opCtx, invitationIndexes); err != nil {
		return fmt.Errorf("failed to create invitation indexes: %w", err)
	}

	return nil
}
