package mongostore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pageza/recipebook/backend/internal/store"
	"github.com/pageza/recipebook/backend/internal/store/mongostore"
	"github.com/pageza/recipebook/backend/internal/store/storetest"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
)

func TestMongoStore(t *testing.T) {
	uri := testhelpers.SetupMongo(t)
	ctx := context.Background()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	storetest.Run(t, func(t *testing.T) store.Store {
		s := mongostore.New(client, "test_"+uuid.NewString()[:8])
		require.NoError(t, s.EnsureIndexes(ctx))
		return s
	})
}
