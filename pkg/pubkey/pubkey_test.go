package pubkey

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestBase58RoundTrip(t *testing.T) {
	encoded := Base58Encode([]byte("Hello World!"))
	if encoded != "2NEpo7TZRRrLZSi2U" {
		t.Fatalf("unexpected encoding: %s", encoded)
	}

	decoded, err := Base58Decode(encoded)
	if err != nil {
		t.Fatalf("Base58Decode failed: %v", err)
	}
	if string(decoded) != "Hello World!" {
		t.Fatalf("unexpected decoding: %q", decoded)
	}

	leading := []byte{0, 0, 7, 9}
	roundTrip, err := Base58Decode(Base58Encode(leading))
	if err != nil {
		t.Fatalf("Base58Decode failed: %v", err)
	}
	if !bytes.Equal(roundTrip, leading) {
		t.Fatalf("leading zeros lost: %v", roundTrip)
	}

	if _, err := Base58Decode("0OIl"); !errors.Is(err, ErrInvalidBase58Character) {
		t.Fatalf("expected invalid character error, got %v", err)
	}
}

func TestPubkeyParsing(t *testing.T) {
	var zero Pubkey
	if zero.String() != "11111111111111111111111111111111" {
		t.Fatalf("unexpected zero key encoding: %s", zero.String())
	}

	key := NewUnique()
	parsed, err := FromString(key.String())
	if err != nil {
		t.Fatalf("FromString failed: %v", err)
	}
	if parsed != key {
		t.Fatalf("round trip mismatch")
	}

	if _, err := FromString("2NEpo7TZRRrLZSi2U"); !errors.Is(err, ErrInvalidPubkeyLength) {
		t.Fatalf("expected length error, got %v", err)
	}
	if NewUnique() == NewUnique() {
		t.Fatalf("expected unique keys")
	}
}

func TestPubkeyJSONUsesBase58(t *testing.T) {
	key := NewUnique()
	payload, err := json.Marshal(map[string]Pubkey{"key": key})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	expected := `{"key":"` + key.String() + `"}`
	if string(payload) != expected {
		t.Fatalf("unexpected json: %s", payload)
	}

	var decoded map[string]Pubkey
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["key"] != key {
		t.Fatalf("decoded key mismatch")
	}
}

func TestKeypairSignAndVerify(t *testing.T) {
	keypair, err := NewKeypair()
	if err != nil {
		t.Fatalf("NewKeypair failed: %v", err)
	}
	message := []byte("batch mint")
	signature := keypair.Sign(message)
	if !signature.Verify(keypair.Pubkey(), message) {
		t.Fatalf("expected signature to verify")
	}
	if signature.Verify(keypair.Pubkey(), []byte("other")) {
		t.Fatalf("expected signature over other message to fail")
	}

	restored, err := KeypairFromBytes(keypair.Bytes())
	if err != nil {
		t.Fatalf("KeypairFromBytes failed: %v", err)
	}
	if restored.Pubkey() != keypair.Pubkey() {
		t.Fatalf("restored keypair mismatch")
	}

	corrupted := keypair.Bytes()
	corrupted[40] ^= 0xff
	if _, err := KeypairFromBytes(corrupted); err == nil {
		t.Fatalf("expected mismatched public key to fail")
	}
	if _, err := KeypairFromBytes(make([]byte, 10)); !errors.Is(err, ErrInvalidKeypairLength) {
		t.Fatalf("expected length error, got %v", err)
	}

	parsed, err := SignatureFromString(signature.String())
	if err != nil {
		t.Fatalf("SignatureFromString failed: %v", err)
	}
	if parsed != signature {
		t.Fatalf("signature round trip mismatch")
	}
}

func TestFindProgramAddress(t *testing.T) {
	program := NewUnique()
	seeds := [][]byte{[]byte("asset"), program[:]}

	address, bump, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("FindProgramAddress failed: %v", err)
	}
	if IsOnCurve(address[:]) {
		t.Fatalf("derived address must be off curve")
	}

	recreated, err := CreateProgramAddress(append(seeds, []byte{bump}), program)
	if err != nil {
		t.Fatalf("CreateProgramAddress failed: %v", err)
	}
	if recreated != address {
		t.Fatalf("recreated address mismatch")
	}

	again, againBump, err := FindProgramAddress(seeds, program)
	if err != nil || again != address || againBump != bump {
		t.Fatalf("expected deterministic derivation")
	}
}

func TestCreateProgramAddressKnownAnswers(t *testing.T) {
	program := MustFromString("BPFLoaderUpgradeab1e11111111111111111111111")
	seedKey := MustFromString("SeedPubey1111111111111111111111111111111111")

	cases := []struct {
		name     string
		seeds    [][]byte
		expected string
	}{
		{name: "empty seed", seeds: [][]byte{{}, {1}}, expected: "BwqrghZA2htAcqq8dzP1WDAhTXYTYWj7CHxF5j7TDBAe"},
		{name: "utf8 seed", seeds: [][]byte{[]byte("☉"), {0}}, expected: "13yWmRpaTR4r5nAktwLqMpRNr28tnVUZw26rTvPSSB19"},
		{name: "two seeds", seeds: [][]byte{[]byte("Talking"), []byte("Squirrels")}, expected: "2fnQrngrQT4SeLcdToJAD96phoEjNL2man2kfRLCASVk"},
		{name: "key seed", seeds: [][]byte{seedKey[:], {1}}, expected: "976ymqVnfE32QFe6NfGDctSvVa36LWnvYxhU6G2232YL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			address, err := CreateProgramAddress(tc.seeds, program)
			if err != nil {
				t.Fatalf("CreateProgramAddress failed: %v", err)
			}
			if address.String() != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, address)
			}
		})
	}
}

func TestProgramAddressSeedLimits(t *testing.T) {
	program := NewUnique()
	if _, _, err := FindProgramAddress([][]byte{make([]byte, 33)}, program); !errors.Is(err, ErrMaxSeedLengthExceeded) {
		t.Fatalf("expected seed length error, got %v", err)
	}

	seeds := make([][]byte, MaxSeeds)
	for index := range seeds {
		seeds[index] = []byte{byte(index)}
	}
	if _, _, err := FindProgramAddress(seeds, program); !errors.Is(err, ErrTooManySeeds) {
		t.Fatalf("expected too many seeds error, got %v", err)
	}
}

func TestIsOnCurve(t *testing.T) {
	basePoint := make([]byte, 32)
	basePoint[0] = 0x58
	for index := 1; index < 32; index++ {
		basePoint[index] = 0x66
	}
	if !IsOnCurve(basePoint) {
		t.Fatalf("expected ed25519 base point to be on curve")
	}

	keypair, err := NewKeypair()
	if err != nil {
		t.Fatalf("NewKeypair failed: %v", err)
	}
	key := keypair.Pubkey()
	if !IsOnCurve(key[:]) {
		t.Fatalf("expected generated public key to be on curve")
	}
	if IsOnCurve([]byte{1, 2, 3}) {
		t.Fatalf("short input must not be on curve")
	}
}
