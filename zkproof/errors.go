package zkproof

import "fmt"

// CommitmentError reports that the content for a commitment could not be read
type CommitmentError struct {
	Err error
}

func (e *CommitmentError) Error() string {
	return fmt.Sprintf("failed to generate commitment: %v", e.Err)
}

func (e *CommitmentError) Unwrap() error { return e.Err }

// ProofGenerationError reports a failure while issuing a proof. Fatal marks
// key-material failures: the process signing key is unusable and the error is
// not retryable.
type ProofGenerationError struct {
	Op    string
	Err   error
	Fatal bool
}

func (e *ProofGenerationError) Error() string {
	return fmt.Sprintf("failed to generate proof: %s: %v", e.Op, e.Err)
}

func (e *ProofGenerationError) Unwrap() error { return e.Err }
