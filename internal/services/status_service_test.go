package services

import (
	"errors"
	"testing"

	"erp_backoffice/internal/models"
)

func status(id int64, name string, isFinal bool) *models.GlobalStatus {
	return &models.GlobalStatus{ID: id, Name: name, Module: "deliveries", IsFinal: isFinal}
}

func TestValidateTransitionSameStatus(t *testing.T) {
	pending := status(1, "Pendente", false)
	err := ValidateTransition(nil, pending, pending)
	if !errors.Is(err, ErrTransitionForbidden) {
		t.Errorf("a self transition must be forbidden, got %v", err)
	}
}

func TestValidateTransitionFromFinal(t *testing.T) {
	delivered := status(3, "Entregue", true)
	pending := status(1, "Pendente", false)

	// final blocks every outbound move, even with no configured edges
	err := ValidateTransition(nil, delivered, pending)
	if !errors.Is(err, ErrTransitionForbidden) {
		t.Errorf("a final status must admit no outbound transition, got %v", err)
	}

	transitions := []models.StatusTransition{{FromStatusID: 3, ToStatusID: 1}}
	err = ValidateTransition(transitions, delivered, pending)
	if !errors.Is(err, ErrTransitionForbidden) {
		t.Errorf("a configured edge must not override the final guard, got %v", err)
	}
}

func TestValidateTransitionZeroEdgesAllowsAny(t *testing.T) {
	pending := status(1, "Pendente", false)
	delivered := status(3, "Entregue", true)

	if err := ValidateTransition(nil, pending, delivered); err != nil {
		t.Errorf("with zero configured edges any non-final move is allowed, got %v", err)
	}
}

func TestValidateTransitionConfiguredEdges(t *testing.T) {
	pending := status(1, "Pendente", false)
	inRoute := status(2, "Em rota", false)
	delivered := status(3, "Entregue", true)

	transitions := []models.StatusTransition{
		{FromStatusID: 1, ToStatusID: 2},
		{FromStatusID: 2, ToStatusID: 3},
	}

	if err := ValidateTransition(transitions, pending, inRoute); err != nil {
		t.Errorf("configured edge must be allowed, got %v", err)
	}
	if err := ValidateTransition(transitions, inRoute, delivered); err != nil {
		t.Errorf("configured edge must be allowed, got %v", err)
	}

	err := ValidateTransition(transitions, pending, delivered)
	if !errors.Is(err, ErrTransitionForbidden) {
		t.Errorf("a skip over the configured chain must be forbidden, got %v", err)
	}
}
