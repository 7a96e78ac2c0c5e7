package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hashed, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hashed)
	}

	if !Verify("correct horse battery staple", hashed) {
		t.Fatal("expected the right password to verify")
	}
	if Verify("wrong password", hashed) {
		t.Fatal("expected the wrong password to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := Hash("same input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	for _, hashed := range []string{"", "plaintext", "$argon2id$v=19$garbage", "$argon2id$v=19$m=65536,t=3,p=2$notb64$notb64"} {
		if Verify("anything", hashed) {
			t.Fatalf("expected malformed hash %q to fail verification", hashed)
		}
	}
}
