package zkproof

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/sha3"
)

const commitmentSaltSize = 16

// Commit creates a cryptographic commitment to content without revealing it.
// The content digest uses SHA3-256 for domain separation from the SHA-256
// used on proof payloads. A fresh salt and the current time are mixed in, so
// committing the same content twice yields distinct commitments; neither salt
// nor timestamp are retained. Use CommitDetached when later re-derivation
// against the original content is required.
func Commit(content []byte) string {
	commitment, _, _ := CommitDetached(content)
	return commitment
}

// CommitDetached is Commit with the salt and generation timestamp returned to
// the caller, enabling a later RecomputeCommitment match against the content.
func CommitDetached(content []byte) (string, []byte, int64) {
	salt := make([]byte, commitmentSaltSize)
	if _, err := rand.Read(salt); err != nil {
		// crypto/rand failure means the platform RNG is broken; there is no
		// meaningful fallback for a hiding commitment.
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}

	timestamp := time.Now().Unix()
	return RecomputeCommitment(content, salt, timestamp), salt, timestamp
}

// CommitReader reads all content from r and commits to it. This is the one
// failing path of commitment generation: an unreadable content buffer.
func CommitReader(r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", &CommitmentError{Err: err}
	}
	return Commit(content), nil
}

// RecomputeCommitment re-derives a commitment from content plus a retained
// salt and timestamp. RecomputeCommitment(c, salt, ts) equals the commitment
// originally produced with that salt and timestamp.
func RecomputeCommitment(content []byte, salt []byte, timestamp int64) string {
	contentHash := sha3.Sum256(content)

	data := make([]byte, 0, len(contentHash)+8+len(salt))
	data = append(data, contentHash[:]...)
	data = binary.BigEndian.AppendUint64(data, uint64(timestamp))
	data = append(data, salt...)

	commitment := sha3.Sum256(data)
	return hex.EncodeToString(commitment[:])
}
