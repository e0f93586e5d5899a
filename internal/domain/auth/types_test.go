package auth

import (
	"testing"
	"time"
)

func TestRole_Permissions(t *testing.T) {
	if !RoleViewer.CanRead() || RoleViewer.CanWrite() {
		t.Fatalf("viewer should read but not write")
	}
	if !RoleEditor.CanRead() || !RoleEditor.CanWrite() {
		t.Fatalf("editor should read and write")
	}
	if !RoleAdmin.CanWrite() {
		t.Fatalf("admin should write")
	}
	if Role("superuser").CanRead() {
		t.Fatalf("unknown role should not read")
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	if (Session{ExpiresAt: now.Add(time.Hour)}).Expired(now) {
		t.Fatalf("future expiry should not be expired")
	}
	if !(Session{ExpiresAt: now.Add(-time.Hour)}).Expired(now) {
		t.Fatalf("past expiry should be expired")
	}
	if (Session{}).Expired(now) {
		t.Fatalf("zero expiry never expires")
	}
}
