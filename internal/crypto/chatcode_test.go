package crypto_test

import (
	"testing"

	"rchat/internal/crypto"
	"rchat/internal/domain"
)

func TestGenerateChatCode_NumericIsSixDigits(t *testing.T) {
	code, err := crypto.GenerateChatCode(domain.ChatCodeNumeric)
	if err != nil {
		t.Fatalf("GenerateChatCode: %v", err)
	}
	if len(code.Value) != 6 {
		t.Fatalf("numeric chat code length = %d, want 6 (%q)", len(code.Value), code.Value)
	}
	for _, r := range code.Value {
		if r < '0' || r > '9' {
			t.Fatalf("numeric chat code %q contains a non-digit", code.Value)
		}
	}
}

func TestGenerateChatCode_StrongIsUnique(t *testing.T) {
	a, err := crypto.GenerateChatCode(domain.ChatCodeStrong)
	if err != nil {
		t.Fatalf("GenerateChatCode: %v", err)
	}
	b, err := crypto.GenerateChatCode(domain.ChatCodeStrong)
	if err != nil {
		t.Fatalf("GenerateChatCode: %v", err)
	}
	if a.Value == b.Value {
		t.Fatalf("two strong chat codes collided: %q", a.Value)
	}
}

func TestDeriveRoomID_SameCodeSameRoom(t *testing.T) {
	code := domain.ChatCode{Kind: domain.ChatCodeStrong, Value: "same-code-for-both-sides"}
	a, err := crypto.DeriveRoomID(code)
	if err != nil {
		t.Fatalf("DeriveRoomID: %v", err)
	}
	b, err := crypto.DeriveRoomID(code)
	if err != nil {
		t.Fatalf("DeriveRoomID: %v", err)
	}
	if a != b {
		t.Fatalf("DeriveRoomID is not deterministic: %q != %q", a, b)
	}
}

func TestDeriveRoomID_DifferentCodesDiverge(t *testing.T) {
	a, err := crypto.DeriveRoomID(domain.ChatCode{Kind: domain.ChatCodeStrong, Value: "code-one"})
	if err != nil {
		t.Fatalf("DeriveRoomID: %v", err)
	}
	b, err := crypto.DeriveRoomID(domain.ChatCode{Kind: domain.ChatCodeStrong, Value: "code-two"})
	if err != nil {
		t.Fatalf("DeriveRoomID: %v", err)
	}
	if a == b {
		t.Fatalf("distinct chat codes produced the same room id")
	}
}

func TestDeriveRoomID_RejectsEmptyCode(t *testing.T) {
	if _, err := crypto.DeriveRoomID(domain.ChatCode{}); err == nil {
		t.Fatalf("expected an error for an empty chat code")
	}
}
