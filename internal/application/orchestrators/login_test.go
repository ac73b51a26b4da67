package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"courtside/internal/domain/account"
)

var fixedTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// sequentialID returns a generator producing test-id-001, test-id-002, ...
func sequentialID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("test-id-%03d", n)
	}
}

// mockAccountStore implements the account store interfaces for testing.
type mockAccountStore struct {
	accounts map[string]account.Account // keyed by ID
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, errors.New("not found")
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

func seedCoachAccount(t *testing.T, store *mockAccountStore, password string) account.Account {
	t.Helper()
	a := account.Account{
		ID:        "coach-001",
		Email:     "coach@courtside.club",
		Name:      "Sam Reed",
		Role:      account.RoleCoach,
		IsActive:  true,
		CreatedAt: fixedTime,
	}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	store.accounts[a.ID] = a
	return a
}

// TestExecuteLogin_Success tests a valid login.
func TestExecuteLogin_Success(t *testing.T) {
	store := newMockAccountStore()
	seedCoachAccount(t, store, "correct-horse-battery")

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "coach@courtside.club",
		Password: "correct-horse-battery",
	}, LoginDeps{AccountStore: store, Now: fixedNow})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccountID != "coach-001" || result.Role != account.RoleCoach {
		t.Errorf("result = %+v", result)
	}
}

// TestExecuteLogin_WrongPassword tests that a bad password is rejected and counted.
func TestExecuteLogin_WrongPassword(t *testing.T) {
	store := newMockAccountStore()
	seedCoachAccount(t, store, "correct-horse-battery")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "coach@courtside.club",
		Password: "wrong-password-here",
	}, LoginDeps{AccountStore: store, Now: fixedNow})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if store.accounts["coach-001"].FailedLogins != 1 {
		t.Errorf("FailedLogins = %d, want 1", store.accounts["coach-001"].FailedLogins)
	}
}

// TestExecuteLogin_LockoutAfterFiveFailures tests the lockout path.
func TestExecuteLogin_LockoutAfterFiveFailures(t *testing.T) {
	store := newMockAccountStore()
	seedCoachAccount(t, store, "correct-horse-battery")
	deps := LoginDeps{AccountStore: store, Now: fixedNow}

	for i := 0; i < 5; i++ {
		_, _ = ExecuteLogin(context.Background(), LoginInput{
			Email:    "coach@courtside.club",
			Password: "wrong-password-here",
		}, deps)
	}

	// Even the correct password is rejected while locked.
	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "coach@courtside.club",
		Password: "correct-horse-battery",
	}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("error = %v, want ErrAccountLocked", err)
	}
}

// TestExecuteLogin_Disabled tests that deactivated accounts cannot log in.
func TestExecuteLogin_Disabled(t *testing.T) {
	store := newMockAccountStore()
	a := seedCoachAccount(t, store, "correct-horse-battery")
	a.IsActive = false
	store.accounts[a.ID] = a

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "coach@courtside.club",
		Password: "correct-horse-battery",
	}, LoginDeps{AccountStore: store, Now: fixedNow})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("error = %v, want ErrAccountDisabled", err)
	}
}

// TestExecuteLogin_UnknownEmail tests that unknown emails are indistinguishable
// from wrong passwords.
func TestExecuteLogin_UnknownEmail(t *testing.T) {
	store := newMockAccountStore()

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "nobody@courtside.club",
		Password: "whatever-password",
	}, LoginDeps{AccountStore: store, Now: fixedNow})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

// TestExecuteCreateAccount tests account creation and duplicate rejection.
func TestExecuteCreateAccount(t *testing.T) {
	store := newMockAccountStore()
	deps := CreateAccountDeps{AccountStore: store, GenerateID: fixedID, Now: fixedNow}

	id, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:    "newcoach@courtside.club",
		Name:     "Jo Marsh",
		Password: "a-long-enough-password",
		Role:     account.RoleCoach,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	saved := store.accounts[id]
	if saved.Email != "newcoach@courtside.club" || !saved.IsActive {
		t.Errorf("saved account = %+v", saved)
	}
	if saved.PasswordHash == "" || saved.PasswordHash == "a-long-enough-password" {
		t.Error("password was not hashed")
	}

	_, err = ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:    "newcoach@courtside.club",
		Name:     "Jo Marsh",
		Password: "a-long-enough-password",
		Role:     account.RoleCoach,
	}, deps)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("error = %v, want ErrEmailAlreadyExists", err)
	}
}
