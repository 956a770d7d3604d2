package mailer

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/ziksirlabs/ziksir-backend/pkg/config"
)

func TestSendBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte

	m := New(config.SMTPConfig{
		Host:        "smtp.example.com",
		Port:        2525,
		Username:    "mailer",
		Password:    "secret",
		DefaultFrom: "no-reply@ziksir.com",
	}, nil)
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), Message{
		To:      []string{"researcher@lab.edu"},
		Subject: "Booking approved",
		Body:    "Your booking was approved.",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotAddr != "smtp.example.com:2525" {
		t.Errorf("addr = %q", gotAddr)
	}
	if gotFrom != "no-reply@ziksir.com" {
		t.Errorf("from = %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "researcher@lab.edu" {
		t.Errorf("to = %v", gotTo)
	}
	body := string(gotBody)
	if !strings.Contains(body, "Subject: Booking approved") {
		t.Errorf("missing subject header in %q", body)
	}
	if !strings.Contains(body, "Your booking was approved.") {
		t.Errorf("missing body in %q", body)
	}
}

func TestSendValidatesMessage(t *testing.T) {
	m := New(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, nil)

	if err := m.Send(context.Background(), Message{Subject: "x", Body: "y"}); err == nil {
		t.Error("expected error for missing recipients")
	}
	if err := m.Send(context.Background(), Message{To: []string{"a@b.c"}, Body: "y"}); err == nil {
		t.Error("expected error for missing subject")
	}
}

func TestSendDisabledDropsMessage(t *testing.T) {
	m := New(config.SMTPConfig{}, nil)
	called := false
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	err := m.Send(context.Background(), Message{
		To:      []string{"a@b.c"},
		Subject: "s",
		Body:    "b",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if called {
		t.Error("expected no delivery when smtp host unset")
	}
}
