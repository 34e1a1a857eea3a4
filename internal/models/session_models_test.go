package models

import "testing"

func TestSessionStatePredicates(t *testing.T) {
	session := NewSessionState(1, "ana",
		[]Role{{ID: 1, Name: "Manager"}},
		[]Permission{{ID: 1, Code: "stock.access"}, {ID: 2, Code: "reports.access"}},
		[]Module{{ID: 1, Path: "/stock"}},
	)

	if !session.HasRole("Manager") {
		t.Error("expected HasRole(Manager) to be true")
	}
	if session.HasRole("Admin") {
		t.Error("expected HasRole(Admin) to be false")
	}
	if !session.HasPermission("stock.access") {
		t.Error("expected HasPermission(stock.access) to be true")
	}
	if session.HasPermission("finance.access") {
		t.Error("expected HasPermission(finance.access) to be false")
	}
	if !session.CanAccessModule("/stock") {
		t.Error("expected CanAccessModule(/stock) to be true")
	}
	if session.CanAccessModule("/finance") {
		t.Error("expected CanAccessModule(/finance) to be false")
	}
}

func TestSessionStateZeroRoles(t *testing.T) {
	session := NewSessionState(7, "bob", nil, nil, nil)

	if session.HasRole("Manager") {
		t.Error("session with zero roles must not grant any role")
	}
	if session.HasPermission("stock.access") {
		t.Error("session with zero roles must not grant any permission")
	}
	if session.CanAccessModule("/stock") {
		t.Error("session with zero roles must not open any module")
	}
}
