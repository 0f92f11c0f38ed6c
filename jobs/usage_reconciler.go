package jobs

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jotter/services"
)

// UsageReconciler periodically re-derives every user's usage counter from
// the stored file records. The counter is maintained with atomic increments
// on each upload and delete, but a crash between a blob write and the
// counter update can leave drift behind; this job closes that gap.
type UsageReconciler struct {
	db             *mongo.Database
	storageService *services.StorageService
	interval       time.Duration
	logger         *log.Logger
}

func NewUsageReconciler(db *mongo.Database, storageService *services.StorageService, interval time.Duration) *UsageReconciler {
	return &UsageReconciler{
		db:             db,
		storageService: storageService,
		interval:       interval,
		logger:         log.New(log.Writer(), "[USAGE_RECONCILER] ", log.LstdFlags),
	}
}

// Start runs one reconciliation immediately, then on every tick until the
// context is cancelled.
func (ur *UsageReconciler) Start(ctx context.Context) {
	ur.logger.Println("Starting usage reconciler job...")

	ur.runReconcile(ctx)

	ticker := time.NewTicker(ur.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ur.logger.Println("Usage reconciler stopped")
			return
		case <-ticker.C:
			ur.runReconcile(ctx)
		}
	}
}

func (ur *UsageReconciler) runReconcile(ctx context.Context) {
	ur.logger.Println("Running usage reconciliation...")

	runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	users, err := ur.userUsages(runCtx)
	if err != nil {
		ur.logger.Printf("Error listing users: %v", err)
		return
	}

	reconciled := 0
	drifted := 0
	for _, user := range users {
		actual, err := ur.storageService.RecalculateUsage(runCtx, user.ID)
		if err != nil {
			ur.logger.Printf("Error reconciling user %s: %v", user.ID.Hex(), err)
			continue
		}
		if actual != user.UsedStorage {
			ur.logger.Printf("Corrected drift for user %s: %d -> %d bytes", user.ID.Hex(), user.UsedStorage, actual)
			drifted++
		}
		reconciled++
	}

	ur.logger.Printf("Usage reconciliation completed. Users: %d, Corrected: %d", reconciled, drifted)
}

type userUsage struct {
	ID          primitive.ObjectID `bson:"_id"`
	UsedStorage int64              `bson:"used_storage"`
}

func (ur *UsageReconciler) userUsages(ctx context.Context) ([]userUsage, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "used_storage": 1})
	cursor, err := ur.db.Collection("users").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []userUsage
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
