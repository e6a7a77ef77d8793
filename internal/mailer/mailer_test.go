package mailer

import (
	"context"
	"strings"
	"testing"
)

func TestNew_DisabledWithoutHost(t *testing.T) {
	m, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil mailer when host is empty")
	}
	// A nil mailer is a no-op sender.
	if err := m.SendProposal(context.Background(), "a@b.com", "Acme", "texto", "<p>texto</p>"); err != nil {
		t.Fatalf("nil mailer should not error: %v", err)
	}
}

func TestNew_RequiresFromAddress(t *testing.T) {
	if _, err := New(Config{Host: "smtp.example.com", Port: 587}); err == nil {
		t.Fatal("expected error when from address is missing")
	}
}

func TestSubject(t *testing.T) {
	got := Subject("Panadería Sol")
	if got != "Propuesta de Crecimiento para Panadería Sol" {
		t.Errorf("unexpected subject %q", got)
	}
}

func TestHTMLBody_WrapsFragment(t *testing.T) {
	body := HTMLBody("<h1>Título</h1><p>texto</p>")
	if !strings.HasPrefix(body, "<!DOCTYPE html>") {
		t.Errorf("expected full document, got %q", body)
	}
	if !strings.Contains(body, "<h1>Título</h1><p>texto</p>") {
		t.Errorf("expected fragment preserved, got %q", body)
	}
	if !strings.HasSuffix(body, "</body></html>") {
		t.Errorf("expected closing tags, got %q", body)
	}
}
