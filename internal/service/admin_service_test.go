package service

import (
	"testing"

	"github.com/johnolamide/echo-mcp-server/internal/domain"
)

type adminFixture struct {
	svc      domain.AdminService
	users    *fakeUserRepo
	messages *fakeMessageRepo
	services *fakeServiceRepo
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		users:    newFakeUserRepo(),
		messages: newFakeMessageRepo(),
		services: newFakeServiceRepo(),
	}
	f.svc = NewAdminService(f.users, f.messages, f.services)
	return f
}

func TestListUsersWithFlagCounts(t *testing.T) {
	f := newAdminFixture(t)
	f.users.add(domain.User{Username: "alice", Email: "a@example.com", IsActive: true, IsVerified: true})
	f.users.add(domain.User{Username: "bob", Email: "b@example.com", IsActive: true})
	f.users.add(domain.User{Username: "root", Email: "r@example.com", IsActive: true, IsVerified: true, IsAdmin: true})

	list, err := f.svc.ListUsers(domain.UserFilter{})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if list.Total != 3 || list.ActiveCount != 3 || list.VerifiedCount != 2 || list.AdminCount != 1 {
		t.Errorf("unexpected counts: %+v", list)
	}

	list, err = f.svc.ListUsers(domain.UserFilter{AdminOnly: true})
	if err != nil {
		t.Fatalf("ListUsers admins: %v", err)
	}
	if list.Total != 1 || list.Users[0].Username != "root" {
		t.Errorf("admin filter failed: %+v", list)
	}
}

func TestGetUserDetailActivityCounters(t *testing.T) {
	f := newAdminFixture(t)
	alice := f.users.add(domain.User{Username: "alice", Email: "a@example.com", IsActive: true, IsVerified: true})
	bob := f.users.add(domain.User{Username: "bob", Email: "b@example.com", IsActive: true, IsVerified: true})

	for i := 0; i < 3; i++ {
		if err := f.messages.Create(&domain.ChatMessage{SenderID: alice.ID, ReceiverID: bob.ID, Content: "hi"}); err != nil {
			t.Fatalf("Create message: %v", err)
		}
	}
	if err := f.messages.Create(&domain.ChatMessage{SenderID: bob.ID, ReceiverID: alice.ID, Content: "yo"}); err != nil {
		t.Fatalf("Create message: %v", err)
	}
	if err := f.services.Create(&domain.Service{Name: "echo", Type: "utility", CreatedBy: alice.ID}); err != nil {
		t.Fatalf("Create service: %v", err)
	}

	detail, err := f.svc.GetUserDetail(alice.ID)
	if err != nil {
		t.Fatalf("GetUserDetail: %v", err)
	}
	if detail.MessagesSent != 3 || detail.MessagesReceived != 1 || detail.ServicesCreated != 1 {
		t.Errorf("unexpected counters: %+v", detail)
	}

	_, err = f.svc.GetUserDetail(999)
	wantStatus(t, err, 404)
}

func TestUpdateUserFlags(t *testing.T) {
	f := newAdminFixture(t)
	alice := f.users.add(domain.User{Username: "alice", Email: "a@example.com", IsActive: true, IsVerified: true})

	_, err := f.svc.UpdateUserFlags(alice.ID, domain.UpdateUserFlagsRequest{})
	wantStatus(t, err, 400)

	off := false
	admin := true
	updated, err := f.svc.UpdateUserFlags(alice.ID, domain.UpdateUserFlagsRequest{IsActive: &off, IsAdmin: &admin})
	if err != nil {
		t.Fatalf("UpdateUserFlags: %v", err)
	}
	if updated.IsActive || !updated.IsAdmin || !updated.IsVerified {
		t.Errorf("unexpected flags: %+v", updated)
	}

	stored, err := f.users.GetByID(alice.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.IsActive {
		t.Error("flag change not persisted")
	}

	_, err = f.svc.UpdateUserFlags(999, domain.UpdateUserFlagsRequest{IsActive: &off})
	wantStatus(t, err, 404)
}
