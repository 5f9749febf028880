package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"civicreport-be/models"
	"civicreport-be/repository"
	"civicreport-be/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const authSecret = "auth-test-secret"

func newAuth(t *testing.T) (*AuthService, *repository.MemoryUsers) {
	t.Helper()
	users := repository.NewMemoryUsers()
	return NewAuthService(users, authSecret, time.Hour, discard), users
}

func TestRegister_DefaultsAndClearsSpecialization(t *testing.T) {
	auth, _ := newAuth(t)
	user, token, err := auth.Register(context.Background(), RegisterInput{
		Username:       "wanjiku",
		Email:          "  Wanjiku@Example.com ",
		Password:       "secret1",
		Specialization: models.Pothole,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Error("expected token")
	}
	if user.Role != models.RoleUser || user.Specialization != "" {
		t.Errorf("role=%s specialization=%q", user.Role, user.Specialization)
	}
	if user.Email != "wanjiku@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if user.Password == "secret1" {
		t.Error("password stored in plain text")
	}
}

func TestRegister_Validation(t *testing.T) {
	auth, _ := newAuth(t)
	cases := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"short password", RegisterInput{Username: "a", Email: "a@b.c", Password: "123"}, "password"},
		{"bad role", RegisterInput{Username: "a", Email: "a@b.c", Password: "123456", Role: "mayor"}, "role"},
		{"officer without specialization", RegisterInput{Username: "a", Email: "a@b.c", Password: "123456", Role: models.RoleOfficer}, "specialization"},
		{"admin bad specialization", RegisterInput{Username: "a", Email: "a@b.c", Password: "123456", Role: models.RoleAdmin, Specialization: "Noise"}, "specialization"},
		{"bad email", RegisterInput{Username: "a", Email: "nope", Password: "123456"}, "email"},
		{"password over 72 bytes", RegisterInput{Username: "a", Email: "a@b.c", Password: strings.Repeat("p", 80)}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := auth.Register(context.Background(), tc.in)
			wantKind(t, err, KindValidation)
			if e := err.(*Error); e.Field != tc.field {
				t.Fatalf("field = %q, want %q", e.Field, tc.field)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	auth, _ := newAuth(t)
	in := RegisterInput{Username: "otieno", Email: "otieno@example.com", Password: "123456"}
	if _, _, err := auth.Register(context.Background(), in); err != nil {
		t.Fatalf("Register: %v", err)
	}
	in.Username = "otieno2"
	_, _, err := auth.Register(context.Background(), in)
	wantKind(t, err, KindConflict)
}

func TestLoginAndResolve(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	registered, _, err := auth.Register(ctx, RegisterInput{
		Username:       "officer-g",
		Email:          "g@example.com",
		Password:       "garbage1",
		Role:           models.RoleOfficer,
		Specialization: models.Garbage,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err = auth.Login(ctx, "g@example.com", "wrong")
	wantKind(t, err, KindUnauthenticated)
	_, _, err = auth.Login(ctx, "missing@example.com", "garbage1")
	wantKind(t, err, KindUnauthenticated)

	_, token, err := auth.Login(ctx, "G@example.com", "garbage1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	id, err := auth.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.ID != registered.ID || id.Role != models.RoleOfficer || id.Specialization != models.Garbage {
		t.Fatalf("identity = %+v", id)
	}
}

func TestResolve_RoleComesFromStorage(t *testing.T) {
	auth, users := newAuth(t)
	ctx := context.Background()
	user := &models.User{Username: "citizen", Email: "c@example.com", Role: models.RoleUser}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	forged, _ := utils.GenerateToken(user.ID.Hex(), string(models.RoleAdmin), []byte(authSecret), time.Hour)
	id, err := auth.Resolve(ctx, forged)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Role != models.RoleUser {
		t.Fatalf("role = %s, want user from the stored record", id.Role)
	}
}

func TestResolve_Failures(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	_, err := auth.Resolve(ctx, "garbage")
	wantKind(t, err, KindUnauthenticated)

	ghost, _ := utils.GenerateToken(primitive.NewObjectID().Hex(), "user", []byte(authSecret), time.Hour)
	_, err = auth.Resolve(ctx, ghost)
	wantKind(t, err, KindUnauthenticated)

	notHex, _ := utils.GenerateToken("not-an-id", "user", []byte(authSecret), time.Hour)
	_, err = auth.Resolve(ctx, notHex)
	wantKind(t, err, KindUnauthenticated)
}
