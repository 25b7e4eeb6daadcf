package export

import (
	"encoding/json"
	"fmt"
)

// Envelope is the password-protected export document.
type Envelope struct {
	Encrypted         bool    `json:"encrypted"`
	PasswordProtected bool    `json:"passwordProtected"`
	Salt              string  `json:"salt"`
	KDFType           KDFType `json:"kdfType"`
	KDFIterations     uint32  `json:"kdfIterations"`
	KDFMemory         *uint32 `json:"kdfMemory"`
	KDFParallelism    *uint32 `json:"kdfParallelism"`
	EncKeyValidation  string  `json:"encKeyValidation_DO_NOT_EDIT"`
	Data              string  `json:"data"`
}

// newEnvelope fills the KDF metadata; memory and parallelism are only
// written for Argon2id.
func newEnvelope(salt string, kdf KDF, validation, data EncString) *Envelope {
	env := &Envelope{
		Encrypted:         true,
		PasswordProtected: true,
		Salt:              salt,
		KDFType:           kdf.Type,
		KDFIterations:     kdf.Iterations,
		EncKeyValidation:  validation.String(),
		Data:              data.String(),
	}

	if kdf.Type == KDFTypeArgon2id {
		memory, parallelism := kdf.Memory, kdf.Parallelism
		env.KDFMemory = &memory
		env.KDFParallelism = &parallelism
	}

	return env
}

// KDF returns the key-derivation parameters recorded in the envelope.
func (e *Envelope) KDF() KDF {
	k := KDF{Type: e.KDFType, Iterations: e.KDFIterations}
	if e.KDFMemory != nil {
		k.Memory = *e.KDFMemory
	}
	if e.KDFParallelism != nil {
		k.Parallelism = *e.KDFParallelism
	}
	return k
}

// Marshal serializes the envelope as indented JSON.
func (e *Envelope) Marshal() ([]byte, error) {
	return marshalIndent(e)
}

// ParseEnvelope decodes an envelope and checks that it is password protected.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}
	if !env.Encrypted || !env.PasswordProtected {
		return nil, ErrNotEncrypted
	}
	return &env, nil
}
