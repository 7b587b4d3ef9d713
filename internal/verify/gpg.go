// Package verify checks detached PGP signatures over downloaded artifacts
// against a user-supplied key ring.
package verify

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/pipscout/pipscout/internal/models"
)

// GPGVerifier verifies detached signatures with a loaded key ring
type GPGVerifier struct {
	keyring openpgp.EntityList
}

// NewGPGVerifier creates a verifier from a public key file, armored or binary
func NewGPGVerifier(keyPath string) (*GPGVerifier, error) {
	if keyPath == "" {
		return nil, &models.PipscoutError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("key path is empty"),
		}
	}

	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer keyFile.Close()

	// Try to parse as armored key first
	keyring, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err != nil {
		// Try as binary key
		keyFile.Seek(0, 0)
		keyring, err = openpgp.ReadKeyRing(keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("no keys found in key file")
	}

	return &GPGVerifier{keyring: keyring}, nil
}

// NewGPGVerifierFromKeyring wraps an already-loaded key ring
func NewGPGVerifierFromKeyring(keyring openpgp.EntityList) *GPGVerifier {
	return &GPGVerifier{keyring: keyring}
}

// VerifyDetached checks a detached signature (armored or binary) over data.
// It returns the signing entity on success.
func (v *GPGVerifier) VerifyDetached(data, signature []byte) (*openpgp.Entity, error) {
	var entity *openpgp.Entity
	var err error

	if isArmored(signature) {
		entity, err = openpgp.CheckArmoredDetachedSignature(
			v.keyring, bytes.NewReader(data), bytes.NewReader(signature), &packet.Config{})
	} else {
		entity, err = openpgp.CheckDetachedSignature(
			v.keyring, bytes.NewReader(data), bytes.NewReader(signature), &packet.Config{})
	}
	if err != nil {
		return nil, &models.PipscoutError{
			Type: models.ErrVerification,
			Err:  err,
		}
	}
	return entity, nil
}

// VerifyFile checks a detached signature file over an artifact file
func (v *GPGVerifier) VerifyFile(artifactPath, signaturePath string) (*openpgp.Entity, error) {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	signature, err := os.ReadFile(signaturePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature: %w", err)
	}
	return v.VerifyDetached(data, signature)
}

// SignerIdentity returns a printable identity for the signing entity
func SignerIdentity(entity *openpgp.Entity) string {
	if entity == nil {
		return "unknown"
	}
	for name := range entity.Identities {
		return name
	}
	if entity.PrimaryKey != nil {
		return entity.PrimaryKey.KeyIdString()
	}
	return "unknown"
}

func isArmored(signature []byte) bool {
	block, err := armor.Decode(bytes.NewReader(signature))
	return err == nil && block != nil
}
