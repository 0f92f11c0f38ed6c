package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"jotter/models"
	"jotter/utils"
)

const (
	bcryptCost        = 12
	otpLength         = 6
	otpTTL            = 10 * time.Minute
	minPasswordLength = 8
)

// validatePassword is the single password rule; the controllers' binding
// tags mirror it.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return utils.ValidationError("Password must be at least 8 characters")
	}
	return nil
}

// AuthService is the identity collaborator: it issues the authenticated
// owner the rest of the system trusts. The storage core never touches
// credentials.
type AuthService struct {
	userCollection      *mongo.Collection
	emailService        *EmailService
	jwtSecret           string
	jwtIssuer           string
	accessTokenTTL      time.Duration
	refreshTokenTTL     time.Duration
	defaultStorageLimit int64
}

func NewAuthService(db *mongo.Database, emailService *EmailService, jwtSecret, jwtIssuer string, accessTTL, refreshTTL time.Duration, defaultStorageLimit int64) *AuthService {
	return &AuthService{
		userCollection:      db.Collection("users"),
		emailService:        emailService,
		jwtSecret:           jwtSecret,
		jwtIssuer:           jwtIssuer,
		accessTokenTTL:      accessTTL,
		refreshTokenTTL:     refreshTTL,
		defaultStorageLimit: defaultStorageLimit,
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, utils.ValidationError("A valid email is required")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if firstName == "" {
		return nil, utils.ValidationError("First name is required")
	}

	count, err := s.userCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if count > 0 {
		return nil, utils.Conflict("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Password:     string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		StorageLimit: s.defaultStorageLimit,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.userCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, utils.Conflict("An account with this email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"email": email, "is_active": true}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, utils.Unauthorized("Invalid email or password")
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, utils.Unauthorized("Invalid email or password")
	}

	now := time.Now()
	_, err = s.userCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"last_login_at": now, "updated_at": now}},
	)
	if err != nil {
		utils.LogWarning("failed to record last login", "user_id", user.ID.Hex(), "error", err)
	}
	user.LastLoginAt = &now

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: &user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := utils.VerifyToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, utils.Unauthorized("Invalid or expired refresh token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, utils.Unauthorized("Invalid refresh token")
	}

	var user models.User
	err = s.userCollection.FindOne(ctx, bson.M{"_id": userID, "is_active": true}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, utils.Unauthorized("Account no longer exists")
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// RequestPasswordReset generates a one-time code, stores it with an expiry,
// and emails it. The response is identical whether or not the account
// exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"email": email, "is_active": true}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	expires := time.Now().Add(otpTTL)
	_, err = s.userCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"reset_password_otp":     otp,
			"reset_password_expires": expires,
			"updated_at":             time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to store reset OTP: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendOTPEmail(ctx, user.Email, user.FullName(), otp); err != nil {
			utils.LogError("failed to send OTP email", err, "user_id", user.ID.Hex())
		}
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"email": email, "is_active": true}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return utils.BadRequest("Invalid or expired reset code")
	} else if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user.ResetPasswordOTP == "" || user.ResetPasswordOTP != otp ||
		user.ResetPasswordExpires == nil || time.Now().After(*user.ResetPasswordExpires) {
		return utils.BadRequest("Invalid or expired reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.userCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{
			"$set":   bson.M{"password": string(hash), "updated_at": time.Now()},
			"$unset": bson.M{"reset_password_otp": "", "reset_password_expires": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *AuthService) issueTokens(user *models.User) (TokenPair, error) {
	access, err := utils.GenerateToken(user.ID.Hex(), user.Email, s.jwtSecret, s.jwtIssuer, s.accessTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := utils.GenerateToken(user.ID.Hex(), user.Email, s.jwtSecret, s.jwtIssuer, s.refreshTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func generateOTP() (string, error) {
	var sb strings.Builder
	for i := 0; i < otpLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteString(n.String())
	}
	return sb.String(), nil
}
