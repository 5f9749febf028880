package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"civicreport-be/models"
	"civicreport-be/repository"
	"civicreport-be/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService registers and logs in users and resolves bearer tokens to
// identities.
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	log    *slog.Logger
}

func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, log: log}
}

type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	Role           models.Role
	Specialization models.Specialization
}

const (
	minPasswordLength = 6
	// bcrypt only reads the first 72 bytes and rejects longer input.
	maxPasswordLength = 72
)

func (in *RegisterInput) normalize() *Error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" {
		return validationError("username", "Username is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return validationError("email", "Valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return validationError("password", "Password must be at least 6 characters")
	}
	if len(in.Password) > maxPasswordLength {
		return validationError("password", "Password must be at most 72 bytes")
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		return validationError("role", "Role must be user, admin, or officer")
	}
	if !in.Role.Staff() {
		in.Specialization = ""
		return nil
	}
	if in.Specialization == "" {
		return validationError("specialization", "Specialization is required for admin or officer role")
	}
	if !in.Specialization.Valid() {
		return validationError("specialization", "Invalid specialization")
	}
	return nil
}

// Register creates the account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if verr := in.normalize(); verr != nil {
		return nil, "", verr
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       in.Password,
		Role:           in.Role,
		Specialization: in.Specialization,
		CreatedAt:      time.Now().UTC(),
	}
	if err := user.HashPassword(); err != nil {
		return nil, "", persistence("hash password", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", conflict("User already exists")
		}
		return nil, "", persistence("create user", err)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", "user_id", user.ID.Hex(), "role", user.Role)
	return user, token, nil
}

// Login checks credentials. Unknown email and wrong password fail alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", unauthenticated("Invalid credentials")
	}
	if err != nil {
		return nil, "", persistence("find user", err)
	}
	if !user.ComparePassword(password) {
		return nil, "", unauthenticated("Invalid credentials")
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) issue(user *models.User) (string, error) {
	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role), s.secret, s.ttl)
	if err != nil {
		return "", persistence("sign token", err)
	}
	return token, nil
}

// Resolve verifies a bearer token and loads the current user record, so
// role and specialization always come from storage.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	user, err := s.resolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// Me returns the full record behind a token.
func (s *AuthService) Me(ctx context.Context, actor *models.Identity) (*models.User, error) {
	if actor == nil {
		return nil, unauthenticated("Not authorized, no token")
	}
	user, err := s.users.FindByID(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User")
	}
	if err != nil {
		return nil, persistence("find user", err)
	}
	return user, nil
}

func (s *AuthService) resolveUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ParseToken(token, s.secret)
	if err != nil {
		return nil, unauthenticated("Not authorized, token failed")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, unauthenticated("Invalid token: user ID is not a valid ObjectId")
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, unauthenticated("Not authorized, user not found")
	}
	if err != nil {
		return nil, persistence("resolve user", err)
	}
	return user, nil
}
