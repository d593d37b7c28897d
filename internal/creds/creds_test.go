package creds

import (
	"regexp"
	"testing"
)

var (
	accountIDShape = regexp.MustCompile(`^ACC\d{4}$`)
	passwordShape  = regexp.MustCompile(`^[a-z0-9]{8}$`)
)

func TestGenerateShape(t *testing.T) {
	g := NewGenerator()

	for i := 0; i < 200; i++ {
		creds, err := g.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !accountIDShape.MatchString(creds.AccountID) {
			t.Fatalf("account id %q does not match ACC + 4 digits", creds.AccountID)
		}
		if !passwordShape.MatchString(creds.Password) {
			t.Fatalf("password %q is not 8 lowercase alphanumerics", creds.Password)
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		creds, err := g.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		seen[creds.AccountID+":"+creds.Password] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("expected varying credentials, got %d distinct pairs", len(seen))
	}
}
