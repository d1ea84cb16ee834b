package zkproof

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCommit(t *testing.T) {
	t.Run("FixedLengthLowercaseHex", func(t *testing.T) {
		commitment := Commit([]byte("chest x-ray bytes"))

		if len(commitment) != 64 {
			t.Errorf("Expected 64 hex characters, got %d", len(commitment))
		}
		if strings.Trim(commitment, "0123456789abcdef") != "" {
			t.Errorf("Commitment contains non-hex characters: %s", commitment)
		}
	})

	t.Run("DistinctContentDistinctCommitment", func(t *testing.T) {
		c1 := Commit(bytes.Repeat([]byte{0x58}, 3600))
		c2 := Commit(bytes.Repeat([]byte{0x59}, 3600))

		if len(c1) != 64 || len(c2) != 64 {
			t.Fatalf("Expected 64-character commitments, got %d and %d", len(c1), len(c2))
		}
		if c1 == c2 {
			t.Error("Distinct content produced identical commitments")
		}
	})

	t.Run("IdenticalContentDistinctCommitment", func(t *testing.T) {
		content := []byte("same scan committed twice")

		if Commit(content) == Commit(content) {
			t.Error("Expected fresh salt to make repeated commitments differ")
		}
	})
}

func TestCommitDetached(t *testing.T) {
	content := []byte("scan to re-derive later")

	commitment, salt, timestamp := CommitDetached(content)

	if len(salt) != commitmentSaltSize {
		t.Fatalf("Expected %d-byte salt, got %d", commitmentSaltSize, len(salt))
	}

	t.Run("RecomputeMatches", func(t *testing.T) {
		if got := RecomputeCommitment(content, salt, timestamp); got != commitment {
			t.Errorf("Recomputed commitment %s does not match original %s", got, commitment)
		}
	})

	t.Run("RecomputeDetectsDifferentContent", func(t *testing.T) {
		if RecomputeCommitment([]byte("different scan"), salt, timestamp) == commitment {
			t.Error("Different content reproduced the original commitment")
		}
	})

	t.Run("RecomputeDetectsDifferentSalt", func(t *testing.T) {
		otherSalt := make([]byte, commitmentSaltSize)
		copy(otherSalt, salt)
		otherSalt[0] ^= 0xff

		if RecomputeCommitment(content, otherSalt, timestamp) == commitment {
			t.Error("Different salt reproduced the original commitment")
		}
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("content buffer unreadable")
}

func TestCommitReader(t *testing.T) {
	t.Run("ReadableContent", func(t *testing.T) {
		commitment, err := CommitReader(bytes.NewReader([]byte("streamed content")))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(commitment) != 64 {
			t.Errorf("Expected 64-character commitment, got %d", len(commitment))
		}
	})

	t.Run("UnreadableContent", func(t *testing.T) {
		_, err := CommitReader(failingReader{})
		if err == nil {
			t.Fatal("Expected error for unreadable content")
		}

		var commitErr *CommitmentError
		if !errors.As(err, &commitErr) {
			t.Errorf("Expected CommitmentError, got %T", err)
		}
	})
}
