package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bekermanmatias/Torneito-sub000/models"
	"github.com/bekermanmatias/Torneito-sub000/repositories"
	"github.com/golang-jwt/jwt/v4"
)

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

const testJWTSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret)

	user, token, err := svc.Register(ctx, RegisterInput{
		Name:     "Matias",
		Email:    "matias@example.com",
		Password: "super-secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == 0 {
		t.Error("user was not persisted")
	}
	if user.PasswordHash == "super-secret" {
		t.Error("password stored in plain text")
	}
	assertTokenSubject(t, token, user.ID)

	logged, token, err := svc.Login(ctx, LoginInput{Email: "matias@example.com", Password: "super-secret"})
	if err != nil {
		t.Fatal(err)
	}
	if logged.ID != user.ID {
		t.Errorf("logged user = %d, want %d", logged.ID, user.ID)
	}
	assertTokenSubject(t, token, user.ID)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret)

	if _, _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "long-enough"}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("missing name err = %v, want ErrNameRequired", err)
	}
	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("short password err = %v, want ErrPasswordTooShort", err)
	}

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "long-enough"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "a@b.com", Password: "long-enough"}); !errors.Is(err, ErrAuthEmailTaken) {
		t.Errorf("duplicate email err = %v, want ErrAuthEmailTaken", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret)

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "long-enough"}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login(ctx, LoginInput{Email: "a@b.com", Password: "wrong-password"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrAuthInvalidCredentials", err)
	}
	// Unknown email must look identical to a wrong password.
	if _, _, err := svc.Login(ctx, LoginInput{Email: "nobody@b.com", Password: "long-enough"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrAuthInvalidCredentials", err)
	}
}

func assertTokenSubject(t *testing.T, tokenString string, userID int) {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		t.Fatal("token claims invalid")
	}
	if got := int(claims["user_id"].(float64)); got != userID {
		t.Errorf("token user_id = %d, want %d", got, userID)
	}
}
