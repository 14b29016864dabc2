package secure

import "testing"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	box, err := NewBox("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	enc, err := box.Encrypt(`{"iban":"DE89370400440532013000"}`)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if enc == `{"iban":"DE89370400440532013000"}` {
		t.Fatal("ciphertext equals plaintext")
	}
	dec, err := box.Decrypt(enc)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if dec != `{"iban":"DE89370400440532013000"}` {
		t.Errorf("round trip mismatch: %q", dec)
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	box, _ := NewBox("0123456789abcdef")
	if _, err := box.Decrypt("not-base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := box.Decrypt("YWJjZA=="); err == nil {
		t.Error("expected error for short ciphertext")
	}
}

func TestBadKeyLength(t *testing.T) {
	if _, err := NewBox("short"); err == nil {
		t.Error("expected error for bad key length")
	}
}
