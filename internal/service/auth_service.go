package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bandprep/internal/domain"
	"bandprep/internal/repository"
)

var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired otp")
	ErrUserNotFound         = errors.New("user not found")
)

// AuthService gestiona el ciclo de vida de códigos OTP y resuelve la
// identidad verificada. No envía correos: el caller despacha el código
// con el colaborador de email.
type AuthService struct {
	logger       *zap.Logger
	users        repository.UserRepository
	otps         repository.OTPRepository
	codeLength   int
	codeTTL      time.Duration
	resendWindow time.Duration
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, otps repository.OTPRepository, codeLength int, codeTTL, resendWindow time.Duration) *AuthService {
	if codeLength <= 0 {
		codeLength = 6
	}
	if codeTTL <= 0 {
		codeTTL = 2 * time.Minute
	}
	if resendWindow <= 0 {
		resendWindow = 30 * time.Second
	}
	return &AuthService{
		logger:       logger,
		users:        users,
		otps:         otps,
		codeLength:   codeLength,
		codeTTL:      codeTTL,
		resendWindow: resendWindow,
	}
}

// Issue garantiza que exista la cuenta y devuelve un OTP vigente para el
// email. Dentro de la ventana de reenvío devuelve el código existente sin
// generar uno nuevo; el caller reenvía el mismo código en vez de fallar.
func (s *AuthService) Issue(ctx context.Context, emailAddr string) (domain.OTPCode, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" {
		return domain.OTPCode{}, ErrInvalidEmail
	}

	if _, err := s.getOrCreateUser(ctx, emailAddr); err != nil {
		return domain.OTPCode{}, err
	}

	now := time.Now().UTC()
	existing, err := s.otps.GetLatestByEmail(ctx, emailAddr)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.OTPCode{}, err
	}
	if err == nil && !existing.Consumed() {
		reference := existing.CreatedAt
		if existing.LastSentAt != nil {
			reference = *existing.LastSentAt
		}
		if now.Sub(reference) < s.resendWindow && !existing.Expired(now) {
			if err := s.otps.MarkSent(ctx, existing.ID, now); err != nil {
				return domain.OTPCode{}, err
			}
			existing.LastSentAt = &now
			return existing, nil
		}
	}

	code, err := generateCode(s.codeLength)
	if err != nil {
		return domain.OTPCode{}, err
	}
	otp := domain.OTPCode{
		ID:        uuid.NewString(),
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: now.Add(s.codeTTL),
		CreatedAt: now,
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return domain.OTPCode{}, err
	}
	return otp, nil
}

// Verify valida el código contra el OTP más reciente del email. El código
// se compara byte a byte, sin recortar espacios ni normalizar. Todos los
// rechazos (sin código, vencido, consumido o incorrecto) responden con el
// mismo error genérico para no orientar fuerza bruta.
func (s *AuthService) Verify(ctx context.Context, emailAddr, code string) (domain.User, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if code == "" {
		return domain.User{}, ErrInvalidOrExpiredCode
	}

	otp, err := s.otps.GetLatestByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidOrExpiredCode
		}
		return domain.User{}, err
	}

	now := time.Now().UTC()
	if otp.Consumed() || otp.Expired(now) {
		return domain.User{}, ErrInvalidOrExpiredCode
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		return domain.User{}, ErrInvalidOrExpiredCode
	}

	// La cuenta se resuelve antes de consumir: si falla, el código sigue
	// vigente y el usuario puede reintentar con el mismo OTP.
	user, err := s.getOrCreateUser(ctx, emailAddr)
	if err != nil {
		return domain.User{}, err
	}

	// Un solo uso: si otro request lo consumió primero, este pierde.
	if err := s.otps.MarkConsumed(ctx, otp.ID, now); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidOrExpiredCode
		}
		return domain.User{}, err
	}

	return user, nil
}

// GetOrCreateUser expone la semántica get-or-create para el registro.
func (s *AuthService) GetOrCreateUser(ctx context.Context, emailAddr string) (domain.User, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	return s.getOrCreateUser(ctx, emailAddr)
}

func (s *AuthService) getOrCreateUser(ctx context.Context, emailAddr string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user = domain.User{
		ID:        uuid.NewString(),
		Email:     emailAddr,
		Name:      defaultName(emailAddr),
		Level:     1,
		XP:        0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Dos requests concurrentes pueden intentar crear la misma cuenta;
		// el perdedor de la restricción de unicidad relee.
		if repository.IsUniqueViolation(err) {
			return s.users.GetByEmail(ctx, emailAddr)
		}
		return domain.User{}, err
	}
	return user, nil
}

func defaultName(emailAddr string) string {
	local, _, found := strings.Cut(emailAddr, "@")
	if !found || local == "" {
		return emailAddr
	}
	return local
}

func generateCode(length int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
