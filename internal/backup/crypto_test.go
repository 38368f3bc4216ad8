package backup

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(salt1) != saltSize {
		t.Errorf("salt length = %d, want %d", len(salt1), saltSize)
	}

	salt2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt 2: %v", err)
	}
	if bytes.Equal(salt1, salt2) {
		t.Error("two salts should not be equal")
	}
}

func TestDeriveKey(t *testing.T) {
	salt := []byte("1234567890abcdef")

	key1 := DeriveKey("chores", salt)
	key2 := DeriveKey("chores", salt)
	if !bytes.Equal(key1, key2) {
		t.Error("same passphrase and salt should produce the same key")
	}
	if len(key1) != keySize {
		t.Errorf("key length = %d, want %d", len(key1), keySize)
	}
	if bytes.Equal(key1, DeriveKey("other", salt)) {
		t.Error("different passphrases should produce different keys")
	}
	if bytes.Equal(key1, DeriveKey("chores", []byte("fedcba0987654321"))) {
		t.Error("different salts should produce different keys")
	}
}

func TestEncryptLayout(t *testing.T) {
	plaintext := []byte("task_log snapshot")

	a, err := Encrypt(plaintext, "pw")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := Encrypt(plaintext, "pw")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	// salt + nonce + ciphertext + 16-byte GCM tag
	if want := saltSize + nonceSize + len(plaintext) + 16; len(a) != want {
		t.Errorf("len = %d, want %d", len(a), want)
	}
	if bytes.Equal(a[:saltSize], b[:saltSize]) {
		t.Error("each encryption should use a fresh salt")
	}
	if bytes.Contains(a, plaintext) {
		t.Error("ciphertext contains the plaintext")
	}
}

func TestDecryptFailures(t *testing.T) {
	sealed, err := Encrypt([]byte("secret data"), "correct")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := Decrypt(sealed, "wrong"); err == nil {
		t.Error("expected error with wrong passphrase")
	}

	tampered := bytes.Clone(sealed)
	tampered[saltSize+nonceSize+1] ^= 0xFF
	if _, err := Decrypt(tampered, "correct"); err == nil {
		t.Error("expected error with tampered ciphertext")
	}

	if _, err := Decrypt([]byte("too short"), "correct"); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("err = %v, want ErrCiphertextTooShort", err)
	}
}

func TestEncryptDecryptFileRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"data", []byte("This is test database content with some data in it.")},
		{"empty", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "source.db")
			enc := filepath.Join(dir, "source.db.enc")
			dec := filepath.Join(dir, "decrypted.db")

			if err := os.WriteFile(src, tt.content, 0o600); err != nil {
				t.Fatalf("write source: %v", err)
			}
			if err := EncryptFile(src, enc, "test-passphrase-123"); err != nil {
				t.Fatalf("encrypt: %v", err)
			}
			if err := DecryptFile(enc, dec, "test-passphrase-123"); err != nil {
				t.Fatalf("decrypt: %v", err)
			}

			got, err := os.ReadFile(dec)
			if err != nil {
				t.Fatalf("read decrypted: %v", err)
			}
			if !bytes.Equal(got, tt.content) {
				t.Errorf("decrypted = %q, want %q", got, tt.content)
			}
		})
	}
}
