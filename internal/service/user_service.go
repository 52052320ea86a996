package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"vendorpro/internal/entity"
)

type UserService struct {
	repo      UserStore
	rdb       *redis.Client
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserService(repo UserStore, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		rdb:       rdb,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

type JwtCustomClaims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}

	return user, nil
}

func (s *UserService) Register(ctx context.Context, user *entity.User) (*entity.User, error) {
	if !entity.ValidRole(user.Role) {
		return nil, fmt.Errorf("invalid role %q", user.Role)
	}
	if user.Status == "" {
		user.Status = "active"
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}
	createdUser.Password = ""

	return createdUser, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (token string, err error) {
	user, err := s.repo.GetUserByEmailAndPassword(ctx, email, password)
	if err != nil {
		return "", err
	}
	if user.Status != "active" {
		return "", errors.New("account is inactive")
	}

	// After validation, generate JWT token
	claims := &JwtCustomClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	// Store the JWT token in Redis with the user email as the key
	if s.rdb != nil {
		err = s.rdb.Set(ctx, email, t, s.tokenTTL).Err()
		if err != nil {
			return "", err
		}
	}

	return t, nil
}

// ValidateToken returns the session token stored for the email at login.
func (s *UserService) ValidateToken(ctx context.Context, email string) (string, error) {
	if s.rdb == nil {
		return "", ErrSessionNotFound
	}

	token, err := s.rdb.Get(ctx, email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", err
	}

	return token, nil
}
