package store

import (
	"testing"

	"cheko/internal/models"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	const email = "zz-test-user@example.com"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })

	u, err := us.Create(email, "s3cret", "Test User", models.RoleManager)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.PasswordHash == "s3cret" {
		t.Fatal("password stored in plaintext")
	}

	found, err := us.FindByEmail(email)
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if found == nil || found.ID != u.ID {
		t.Fatalf("expected user, got %+v", found)
	}

	if !us.CheckPassword(found, "s3cret") {
		t.Error("correct password rejected")
	}
	if us.CheckPassword(found, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestUserTOTPEnrollment(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	const email = "zz-totp-user@example.com"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })

	u, err := us.Create(email, "pw", "TOTP User", models.RoleAdmin)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !u.Needs2FASetup() {
		t.Error("fresh user should need 2FA setup")
	}

	if err := us.SetTOTPSecret(u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("set secret: %v", err)
	}
	if err := us.EnableTOTP(u.ID); err != nil {
		t.Fatalf("enable: %v", err)
	}

	got, err := us.FindByID(u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.TOTPSecret == nil || *got.TOTPSecret != "JBSWY3DPEHPK3PXP" || !got.TOTPEnabled {
		t.Errorf("enrollment not persisted: %+v", got)
	}
	if got.Needs2FASetup() {
		t.Error("enrolled user should not need setup")
	}
}

func TestFindByEmailMissing(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	u, err := us.FindByEmail("zz-absent@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil, got %+v", u)
	}
}
