package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	jwtsvc "homeserve/internal/pkg/jwt"
)

type Service struct {
	repo *UserRepository
	jwt  *jwtsvc.Service
}

func NewService(repo *UserRepository, jwt *jwtsvc.Service) *Service {
	return &Service{repo: repo, jwt: jwt}
}

type RegisterParams struct {
	Email    string
	Password string
	Role     Role
	Name     string
	Phone    string
	Address  string
}

func (s *Service) Register(ctx context.Context, p RegisterParams) (*User, string, error) {
	if _, err := s.repo.GetByEmail(ctx, p.Email); err == nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	role := p.Role
	if role != RoleHelper {
		role = RoleCustomer
	}

	now := time.Now().UTC()
	u := &User{
		Email:        p.Email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         p.Name,
		Phone:        p.Phone,
		Address:      p.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

type UpdateProfileParams struct {
	Name    string
	Phone   string
	Address string
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, p UpdateProfileParams) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Phone != "" {
		u.Phone = p.Phone
	}
	if p.Address != "" {
		u.Address = p.Address
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
