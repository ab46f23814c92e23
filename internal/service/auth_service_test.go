package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/service"

	"go.uber.org/zap"
)

type mockAuthStore struct {
	accounts map[string]domain.StaffAccount
	nextID   int64
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{accounts: make(map[string]domain.StaffAccount), nextID: 1}
}

func (m *mockAuthStore) GetStaffByUsername(_ context.Context, username string) (*domain.StaffAccount, error) {
	a, ok := m.accounts[username]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *mockAuthStore) CreateStaff(_ context.Context, account *domain.StaffAccount) (*domain.StaffAccount, error) {
	created := *account
	created.ID = m.nextID
	m.nextID++
	m.accounts[created.Username] = created
	return &created, nil
}

func newAuthService(store *mockAuthStore) *service.AuthService {
	return service.NewAuthService(store, "test-secret", time.Hour, zap.NewNop())
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := newAuthService(newMockAuthStore())
	ctx := context.Background()

	account, err := svc.SignUp(ctx, &domain.SignUpRequest{
		Username: "hford",
		Email:    "hford@coverdesk.example",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if account.ID == 0 {
		t.Error("expected an assigned id")
	}
	if len(account.Roles) != 1 || account.Roles[0] != domain.RoleAgent {
		t.Errorf("expected default AGENT role, got %v", account.Roles)
	}
	if account.PasswordHash == "correct-horse-battery" {
		t.Error("password stored in plaintext")
	}

	resp, err := svc.SignIn(ctx, &domain.SignInRequest{
		Username: "hford",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if resp.Type != "Bearer" || resp.Token == "" {
		t.Errorf("expected a bearer token, got %+v", resp)
	}
	if resp.Username != "hford" {
		t.Errorf("expected username hford, got %s", resp.Username)
	}

	claims, err := svc.ValidateAccessToken(resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Sub != account.ID || claims.Username != "hford" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if !claims.HasRole(domain.RoleAgent) {
		t.Error("expected AGENT role in token")
	}
	if claims.HasRole(domain.RoleAdmin) {
		t.Error("did not expect ADMIN role in token")
	}
}

func TestSignUp_ShortPassword(t *testing.T) {
	svc := newAuthService(newMockAuthStore())

	_, err := svc.SignUp(context.Background(), &domain.SignUpRequest{
		Username: "hford",
		Password: "short",
	})
	var vErr *domain.ErrValidationFailed
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ErrValidationFailed, got %T: %v", err, err)
	}
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	svc := newAuthService(newMockAuthStore())
	ctx := context.Background()

	req := &domain.SignUpRequest{Username: "hford", Password: "correct-horse-battery"}
	if _, err := svc.SignUp(ctx, req); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	_, err := svc.SignUp(ctx, req)
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %T: %v", err, err)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc := newAuthService(newMockAuthStore())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, &domain.SignUpRequest{Username: "hford", Password: "correct-horse-battery"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.SignIn(ctx, &domain.SignInRequest{Username: "hford", Password: "wrong-password"})
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %T: %v", err, err)
	}
}

func TestSignIn_UnknownUser(t *testing.T) {
	svc := newAuthService(newMockAuthStore())

	_, err := svc.SignIn(context.Background(), &domain.SignInRequest{Username: "ghost", Password: "whatever"})
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %T: %v", err, err)
	}
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newAuthService(newMockAuthStore())

	_, err := svc.ValidateAccessToken("not.a.token")
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %T: %v", err, err)
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	store := newMockAuthStore()
	issuer := newAuthService(store)
	ctx := context.Background()

	if _, err := issuer.SignUp(ctx, &domain.SignUpRequest{Username: "hford", Password: "correct-horse-battery"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	resp, err := issuer.SignIn(ctx, &domain.SignInRequest{Username: "hford", Password: "correct-horse-battery"})
	if err != nil {
		t.Fatalf("signin: %v", err)
	}

	other := service.NewAuthService(store, "different-secret", time.Hour, zap.NewNop())
	if _, err := other.ValidateAccessToken(resp.Token); err == nil {
		t.Fatal("expected validation to fail under a different secret")
	}
}
