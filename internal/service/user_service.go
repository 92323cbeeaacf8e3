package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fitfusion-users/internal/domain"
	"fitfusion-users/internal/repository"
)

// UserService coordina reglas de negocio para cuentas de usuario.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

type RegisterInput struct {
	Username    string
	Email       string
	PhoneNumber string
	Password    string
	DOB         string
}

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Campos que un patch de actualización nunca puede tocar. La contraseña solo
// cambia por un flujo dedicado y verificado; el resto es inmutable.
var immutableFields = map[string]bool{
	"password":   true,
	"id":         true,
	"_id":        true,
	"created_at": true,
	"updated_at": true,
}

// Register valida los cinco campos obligatorios, hashea la contraseña con
// bcrypt y crea el usuario. La contraseña jamás se persiste en claro.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	username := strings.TrimSpace(input.Username)
	emailAddr := normalizeEmail(input.Email)
	phoneNumber := strings.TrimSpace(input.PhoneNumber)
	password := strings.TrimSpace(input.Password)
	dob := strings.TrimSpace(input.DOB)

	if username == "" || emailAddr == "" || phoneNumber == "" || password == "" || dob == "" {
		return domain.User{}, ErrMissingFields
	}

	// Chequeo rápido para un mensaje amable; el índice único de Mongo es la
	// garantía real contra registros concurrentes con el mismo email.
	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        emailAddr,
		PhoneNumber:  phoneNumber,
		PasswordHash: string(hashBytes),
		DOB:          dob,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// Authenticate verifica email y contraseña contra el hash almacenado.
// Un email desconocido y una contraseña incorrecta son fallos distintos
// (404 vs 401 en la capa HTTP).
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	if s.users == nil {
		return nil, errors.New("user service not configured")
	}
	return s.users.List(ctx)
}

// Update aplica un patch arbitrario al usuario indicado, descartando en
// silencio la contraseña y los campos inmutables antes de tocar el store.
func (s *UserService) Update(ctx context.Context, id string, patch map[string]any) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	clean := make(map[string]any, len(patch))
	for k, v := range patch {
		if immutableFields[k] {
			continue
		}
		if k == "email" {
			if str, ok := v.(string); ok {
				v = normalizeEmail(str)
			}
		}
		clean[k] = v
	}

	user, err := s.users.UpdateByID(ctx, id, clean)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return user, nil
}

// Delete elimina el registro de forma inmediata y permanente. Un id ausente
// se reporta como ErrUserNotFound; borrar dos veces es inocuo.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if s.users == nil {
		return errors.New("user service not configured")
	}

	_, err := s.users.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
