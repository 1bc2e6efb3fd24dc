package domain

import "testing"

func TestAddressString(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{"name and email", Address{Name: "Alice", Email: "alice@example.com"}, "Alice <alice@example.com>"},
		{"email only", Address{Email: "bob@example.com"}, "bob@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.addr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddressDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "example.com"},
		{"Bob@Example.COM", "example.com"},
		{"no-at-sign", ""},
		{"trailing@", ""},
	}
	for _, tt := range tests {
		if got := (Address{Email: tt.email}).Domain(); got != tt.want {
			t.Errorf("Domain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestMessageBody(t *testing.T) {
	m := &Message{BodyText: "plain", BodyHTML: "<p>html</p>"}
	if got := m.Body(); got != "plain\n<p>html</p>" {
		t.Errorf("Body() = %q", got)
	}

	m = &Message{BodyHTML: "<p>html</p>"}
	if got := m.Body(); got != "<p>html</p>" {
		t.Errorf("Body() with no text = %q", got)
	}
}

func TestMessageSize(t *testing.T) {
	m := &Message{Subject: "abc", BodyText: "de", BodyHTML: "f"}
	if got := m.Size(); got != 6 {
		t.Errorf("Size() = %d, want 6", got)
	}
}

func TestNewListEntry_DerivesDomain(t *testing.T) {
	e := NewListEntry(ListBlack, " Spammer@Junk.example ")
	if e.EmailAddress != "spammer@junk.example" {
		t.Errorf("EmailAddress = %q", e.EmailAddress)
	}
	if e.Domain != "junk.example" {
		t.Errorf("Domain = %q", e.Domain)
	}
	if e.Kind != ListBlack {
		t.Errorf("Kind = %q", e.Kind)
	}
}
