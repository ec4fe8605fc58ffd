package event

import "testing"

func TestGenesisShape(t *testing.T) {
	if len(Genesis) != 64 {
		t.Fatalf("genesis length = %d, want 64", len(Genesis))
	}
	for _, c := range Genesis {
		if c != '0' {
			t.Fatalf("genesis contains non-zero rune %q", c)
		}
	}
}

func TestCanonicalSigningBytesFieldOrder(t *testing.T) {
	e := Event{
		ModelID:       "A",
		Index:         0,
		Ts:            1000,
		Payload:       "hello",
		PayloadCommit: "commit",
		EventHash:     "hash",
		PayloadHash:   "hash",
		PrevHash:      Genesis,
	}
	got := string(e.CanonicalSigningBytes())
	want := "A|0|" + Genesis + "|hash|commit|1000"
	if got != want {
		t.Fatalf("canonical signing bytes = %q, want %q", got, want)
	}
}

func TestCanonicalSigningBytesExcludesPayload(t *testing.T) {
	base := Event{ModelID: "A", Index: 0, Ts: 1, PrevHash: Genesis, EventHash: "h", PayloadCommit: "c"}
	withDifferentPayload := base
	withDifferentPayload.Payload = "anything, this field is absent from signing bytes"
	if string(base.CanonicalSigningBytes()) != string(withDifferentPayload.CanonicalSigningBytes()) {
		t.Fatalf("canonical signing bytes must not depend on payload")
	}
}
