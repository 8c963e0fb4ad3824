package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"bandprep/internal/domain"
	"bandprep/internal/repository"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	createErr    error
	// emailMisses simula la ventana de carrera: los primeros N lookups
	// por email responden como si la cuenta aún no existiera.
	emailMisses int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		err := m.createErr
		m.createErr = nil
		return err
	}
	if _, exists := m.usersByEmail[user.Email]; exists {
		return &pgconn.PgError{Code: "23505"}
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	if m.emailMisses > 0 {
		m.emailMisses--
		return domain.User{}, pgx.ErrNoRows
	}
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id string, update repository.ProfileUpdate, updatedAt time.Time) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.TargetScore != nil {
		user.TargetScore = update.TargetScore
	}
	if update.TestDate != nil {
		user.TestDate = update.TestDate
	}
	if update.HasPreviousTest != nil {
		user.HasPreviousTest = *update.HasPreviousTest
	}
	if update.LastTestScore != nil {
		user.LastTestScore = update.LastTestScore
	}
	user.UpdatedAt = updatedAt
	m.usersByID[id] = user
	return user, nil
}

func (m *mockUserRepo) UpdateProgress(_ context.Context, id string, xp, level int, updatedAt time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.XP = xp
	user.Level = level
	user.UpdatedAt = updatedAt
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByEmail, user.Email)
	delete(m.usersByID, id)
	return nil
}

type mockOTPRepo struct {
	otps map[string]domain.OTPCode
}

func newMockOTPRepo() *mockOTPRepo {
	return &mockOTPRepo{otps: make(map[string]domain.OTPCode)}
}

func (m *mockOTPRepo) Create(_ context.Context, otp domain.OTPCode) error {
	m.otps[otp.ID] = otp
	return nil
}

func (m *mockOTPRepo) GetLatestByEmail(_ context.Context, email string) (domain.OTPCode, error) {
	var matches []domain.OTPCode
	for _, otp := range m.otps {
		if otp.Email == email {
			matches = append(matches, otp)
		}
	}
	if len(matches) == 0 {
		return domain.OTPCode{}, pgx.ErrNoRows
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches[0], nil
}

func (m *mockOTPRepo) MarkSent(_ context.Context, id string, sentAt time.Time) error {
	otp, ok := m.otps[id]
	if !ok {
		return pgx.ErrNoRows
	}
	otp.LastSentAt = &sentAt
	m.otps[id] = otp
	return nil
}

func (m *mockOTPRepo) MarkConsumed(_ context.Context, id string, consumedAt time.Time) error {
	otp, ok := m.otps[id]
	if !ok || otp.ConsumedAt != nil {
		return pgx.ErrNoRows
	}
	otp.ConsumedAt = &consumedAt
	m.otps[id] = otp
	return nil
}

func newTestAuthService(users *mockUserRepo, otps *mockOTPRepo) *AuthService {
	return NewAuthService(zap.NewNop(), users, otps, 6, 2*time.Minute, 30*time.Second)
}

func TestAuthServiceIssue_NewEmailCreatesAccount(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	otp, err := svc.Issue(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(otp.Code) != 6 {
		t.Errorf("code length = %d, want 6", len(otp.Code))
	}
	for _, r := range otp.Code {
		if r < '0' || r > '9' {
			t.Errorf("code %q contiene caracteres no numéricos", otp.Code)
		}
	}

	user, err := users.GetByEmail(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.Name != "new" {
		t.Errorf("name = %q, want local-part %q", user.Name, "new")
	}
	if user.Level != 1 || user.XP != 0 {
		t.Errorf("level/xp = %d/%d, want 1/0", user.Level, user.XP)
	}
}

func TestAuthServiceIssue_RateLimitReturnsSameCode(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	first, err := svc.Issue(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := svc.Issue(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("Issue segunda vez: %v", err)
	}

	if second.Code != first.Code {
		t.Errorf("code cambió dentro de la ventana: %q vs %q", second.Code, first.Code)
	}
	if !second.ExpiresAt.Equal(first.ExpiresAt) {
		t.Errorf("expiry cambió dentro de la ventana: %v vs %v", second.ExpiresAt, first.ExpiresAt)
	}
	if second.LastSentAt == nil {
		t.Error("last_sent_at no quedó estampado en el reenvío")
	}
	if len(otps.otps) != 1 {
		t.Errorf("otp rows = %d, want 1", len(otps.otps))
	}
	if len(users.usersByID) != 1 {
		t.Errorf("cuentas = %d, want 1", len(users.usersByID))
	}
}

func TestAuthServiceIssue_NewCodeAfterWindow(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	first, err := svc.Issue(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Retrocede el OTP existente fuera de la ventana de reenvío.
	stale := otps.otps[first.ID]
	stale.CreatedAt = stale.CreatedAt.Add(-time.Minute)
	otps.otps[first.ID] = stale

	second, err := svc.Issue(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("Issue segunda vez: %v", err)
	}
	if second.ID == first.ID {
		t.Error("se reusó el OTP fuera de la ventana")
	}
	if len(otps.otps) != 2 {
		t.Errorf("otp rows = %d, want 2", len(otps.otps))
	}
}

func TestAuthServiceIssue_CreateRaceFallsBackToLookup(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	// Otro request creó la cuenta entre el lookup y el insert: el primer
	// lookup no la ve, el insert choca con unicidad y la relectura resuelve.
	winner := domain.User{ID: "winner", Email: "race@example.com", Name: "race", Level: 1}
	users.usersByID[winner.ID] = winner
	users.usersByEmail[winner.Email] = winner.ID
	users.emailMisses = 1
	users.createErr = &pgconn.PgError{Code: "23505"}

	if _, err := svc.Issue(context.Background(), "race@example.com"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(users.usersByID) != 1 {
		t.Errorf("cuentas = %d, want 1 (sin duplicados)", len(users.usersByID))
	}
}

func TestAuthServiceVerify_Success(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	otp, err := svc.Issue(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	user, err := svc.Verify(context.Background(), "user@example.com", otp.Code)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Errorf("email = %q", user.Email)
	}

	stored := otps.otps[otp.ID]
	if stored.ConsumedAt == nil {
		t.Error("el OTP no quedó marcado como consumido")
	}
}

func TestAuthServiceVerify_ReplayRejected(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	otp, err := svc.Issue(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(context.Background(), "user@example.com", otp.Code); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	_, err = svc.Verify(context.Background(), "user@example.com", otp.Code)
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Errorf("replay devolvió %v, want ErrInvalidOrExpiredCode", err)
	}
}

func TestAuthServiceVerify_WrongCode(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	otp, err := svc.Issue(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// El código se compara sin normalizar: las variantes con espacios o
	// tabs alrededor del código correcto también deben fallar.
	for _, wrong := range []string{"000000", "1", otp.Code + "0", " " + otp.Code + " ", otp.Code + " ", "\t" + otp.Code} {
		if wrong == otp.Code {
			continue
		}
		_, err := svc.Verify(context.Background(), "user@example.com", wrong)
		if !errors.Is(err, ErrInvalidOrExpiredCode) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidOrExpiredCode", wrong, err)
		}
	}

	// Los rechazos no queman el código: el exacto sigue siendo válido.
	if _, err := svc.Verify(context.Background(), "user@example.com", otp.Code); err != nil {
		t.Errorf("Verify con el código exacto tras los rechazos: %v", err)
	}
}

func TestAuthServiceVerify_AccountErrorLeavesCodeUsable(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	otp, err := svc.Issue(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// La resolución de la cuenta falla: el código no debe consumirse y el
	// reintento con el mismo OTP tiene que funcionar.
	delete(users.usersByID, users.usersByEmail["user@example.com"])
	delete(users.usersByEmail, "user@example.com")
	users.createErr = errors.New("db down")

	if _, err := svc.Verify(context.Background(), "user@example.com", otp.Code); err == nil {
		t.Fatal("Verify no propagó el error de la cuenta")
	}
	if otps.otps[otp.ID].ConsumedAt != nil {
		t.Fatal("el OTP quedó consumido pese al error de la cuenta")
	}

	user, err := svc.Verify(context.Background(), "user@example.com", otp.Code)
	if err != nil {
		t.Fatalf("Verify en el reintento: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if otps.otps[otp.ID].ConsumedAt == nil {
		t.Error("el reintento exitoso no consumió el OTP")
	}
}

func TestAuthServiceVerify_ExpiryBoundary(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	otp, err := svc.Issue(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Aún vigente: vence en un segundo.
	fresh := otps.otps[otp.ID]
	fresh.ExpiresAt = time.Now().UTC().Add(time.Second)
	otps.otps[otp.ID] = fresh
	if _, err := svc.Verify(context.Background(), "user@example.com", otp.Code); err != nil {
		t.Fatalf("Verify antes de expirar: %v", err)
	}

	// Nuevo OTP ya vencido: rechazado con el error genérico.
	expired := domain.OTPCode{
		ID:        "expired",
		Email:     "user@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().UTC().Add(-time.Second),
		CreatedAt: time.Now().UTC(),
	}
	otps.otps[expired.ID] = expired

	_, err = svc.Verify(context.Background(), "user@example.com", "123456")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Errorf("Verify expirado = %v, want ErrInvalidOrExpiredCode", err)
	}
}

func TestAuthServiceVerify_NoCode(t *testing.T) {
	users := newMockUserRepo()
	otps := newMockOTPRepo()
	svc := newTestAuthService(users, otps)

	_, err := svc.Verify(context.Background(), "nobody@example.com", "123456")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Errorf("Verify sin OTP = %v, want ErrInvalidOrExpiredCode", err)
	}
}
