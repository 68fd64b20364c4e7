package inv

import "io"

// Encryptor seals exported snapshot documents for transport off the host.
type Encryptor interface {
	// Setup generates and stores a new key pair, protecting the private
	// key with the given passphrase.
	Setup(passphrase string) error

	// IsConfigured returns true if key material is already in place.
	IsConfigured() bool

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key with the passphrase and returns a
	// context that can decrypt data.
	Unlock(passphrase string) (DecryptionContext, error)
}

// DecryptionContext holds an unlocked private key.
type DecryptionContext interface {
	// Decrypt reads ciphertext from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
