package line

import "testing"

func TestValidateSignatureRoundTrip(t *testing.T) {
	t.Parallel()

	body := []byte(`{"events":[]}`)
	sig := Sign("secret", body)

	if !ValidateSignature("secret", body, sig) {
		t.Fatal("expected signature to validate")
	}
	if ValidateSignature("secret", []byte(`{"events":[{}]}`), sig) {
		t.Fatal("expected tampered body to fail validation")
	}
	if ValidateSignature("other-secret", body, sig) {
		t.Fatal("expected wrong secret to fail validation")
	}
}

func TestValidateSignatureRejectsEmptyInputs(t *testing.T) {
	t.Parallel()

	body := []byte("x")
	if ValidateSignature("", body, Sign("", body)) {
		t.Fatal("empty secret must never validate")
	}
	if ValidateSignature("secret", body, "") {
		t.Fatal("empty signature must never validate")
	}
}
