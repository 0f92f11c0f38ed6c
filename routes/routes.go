package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"jotter/config"
	"jotter/services"
)

// ServiceContainer holds all services and shared dependencies.
type ServiceContainer struct {
	DB             *mongo.Database
	JWTSecret      string
	StorageService *services.StorageService
	UserService    *services.UserService
	FolderService  *services.FolderService
	FileService    *services.FileService
	NoteService    *services.NoteService
	MixedService   *services.MixedService
	AuthService    *services.AuthService
	BlobStore      services.BlobStore
}

// NewServiceContainer wires every service against the shared database and
// the B2 bucket. The B2 client authenticates during construction, so a bad
// key fails fast here instead of on the first upload.
func NewServiceContainer(ctx context.Context, db *mongo.Database, cfg *config.Config) (*ServiceContainer, error) {
	blobStore, err := services.NewB2BlobService(ctx, cfg.B2KeyID, cfg.B2ApplicationKey, cfg.B2BucketName)
	if err != nil {
		return nil, err
	}

	storageService := services.NewStorageService(db)
	emailService := services.NewEmailService(cfg.MailgunAPIKey, cfg.MailgunDomain, cfg.MailgunFrom)

	return &ServiceContainer{
		DB:             db,
		JWTSecret:      cfg.JWTSecret,
		StorageService: storageService,
		UserService:    services.NewUserService(db, blobStore),
		FolderService:  services.NewFolderService(db, storageService, blobStore),
		FileService:    services.NewFileService(db, storageService, blobStore, cfg.MaxFileSize),
		NoteService:    services.NewNoteService(db),
		MixedService:   services.NewMixedService(db),
		AuthService: services.NewAuthService(db, emailService, cfg.JWTSecret, cfg.JWTIssuer,
			cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.DefaultStorageLimit),
		BlobStore: blobStore,
	}, nil
}

// SetupRoutes registers every route group under the api group.
func SetupRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterAuthRoutes(api, container)
	RegisterFolderRoutes(api, container)
	RegisterFileRoutes(api, container)
	RegisterNoteRoutes(api, container)
	RegisterMixedRoutes(api, container)
	RegisterStorageRoutes(api, container)
}
