package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrProtoVersion,
		ErrBadRequest,
		ErrTooFewToys,
		ErrRateLimit,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestDecodeBase(t *testing.T) {
	m, err := DecodeBase([]byte(`{"type":"DRAW","protocol_version":"1.0","n":3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != TypeDraw || m.ProtocolVersion != Version {
		t.Fatalf("base=%+v", m)
	}
	if _, err := DecodeBase([]byte(`{`)); err == nil {
		t.Fatalf("expected error for truncated json")
	}
}

func TestNewError_UnknownCodeBecomesInternal(t *testing.T) {
	m := NewError("r1", ErrTooFewToys, "need 3")
	if m.Type != TypeError || m.Code != ErrTooFewToys || m.RequestID != "r1" || m.ProtocolVersion != Version {
		t.Fatalf("msg=%+v", m)
	}
	for _, code := range []string{"E_NOT_DEFINED", ""} {
		if got := NewError("", code, "x").Code; got != ErrInternal {
			t.Fatalf("code %q mapped to %q want %q", code, got, ErrInternal)
		}
	}
}
