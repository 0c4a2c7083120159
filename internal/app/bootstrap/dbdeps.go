// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/blobstore"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to the subsequent
// lifecycle hooks: EnsureSchema, Startup, BuildHandler, and Shutdown.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// MediaStorage holds uploaded article images and icon binaries.
	MediaStorage blobstore.Store
}
