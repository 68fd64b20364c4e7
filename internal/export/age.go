package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"

	"lsinv/internal/config"
	"lsinv/internal/inv"
)

// AgeEncryptor seals export documents with an X25519 key pair. Ciphertext
// is ASCII armored so an encrypted export survives the same copy-paste
// shells the listings themselves are captured from. The public key file is
// plain text; the private key is itself age-encrypted under the user's
// passphrase with age's scrypt recipient.
type AgeEncryptor struct {
	pubPath string
	keyPath string
}

var _ inv.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates an AgeEncryptor reading and writing the key
// files named in the configuration.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		pubPath: cfg.PublicKeyPath,
		keyPath: cfg.PrivateKeyPath,
	}
}

// Setup generates a fresh key pair and writes both halves. Existing key
// files are overwritten; callers guard against that before prompting for
// a passphrase.
func (e *AgeEncryptor) Setup(passphrase string) error {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	if err := e.writeRecipientFile(identity.Recipient()); err != nil {
		return err
	}
	return e.sealIdentity(identity, passphrase)
}

// writeRecipientFile stores the public key with a short header so the file
// is self-describing when copied between machines. age's recipient parser
// skips the header as a comment.
func (e *AgeEncryptor) writeRecipientFile(r *age.X25519Recipient) error {
	if err := os.MkdirAll(filepath.Dir(e.pubPath), 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# lsinv export key, created %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintln(&buf, r.String())

	if err := os.WriteFile(e.pubPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	return nil
}

// sealIdentity encrypts the private key under the passphrase and writes it.
func (e *AgeEncryptor) sealIdentity(identity *age.X25519Identity, passphrase string) error {
	if err := os.MkdirAll(filepath.Dir(e.keyPath), 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("deriving passphrase key: %w", err)
	}

	f, err := os.OpenFile(e.keyPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating private key file: %w", err)
	}

	w, err := age.Encrypt(f, recipient)
	if err != nil {
		f.Close()
		return fmt.Errorf("sealing private key: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		f.Close()
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("sealing private key: %w", err)
	}
	return f.Close()
}

// IsConfigured reports whether both key files are in place.
func (e *AgeEncryptor) IsConfigured() bool {
	_, pubErr := os.Stat(e.pubPath)
	_, keyErr := os.Stat(e.keyPath)
	return pubErr == nil && keyErr == nil
}

// Encrypt seals plaintext from r into an armored age message on w,
// addressed to the stored public key.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := e.recipient()
	if err != nil {
		return err
	}

	aw := armor.NewWriter(w)
	cw, err := age.Encrypt(aw, recipient)
	if err != nil {
		return fmt.Errorf("sealing export: %w", err)
	}
	if _, err := io.Copy(cw, r); err != nil {
		return fmt.Errorf("sealing export: %w", err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("sealing export: %w", err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("finishing armor: %w", err)
	}
	return nil
}

// recipient loads and parses the public key file.
func (e *AgeEncryptor) recipient() (age.Recipient, error) {
	f, err := os.Open(e.pubPath)
	if err != nil {
		return nil, fmt.Errorf("opening public key: %w", err)
	}
	defer f.Close()

	recipients, err := age.ParseRecipients(f)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) != 1 {
		return nil, fmt.Errorf("public key file holds %d keys, want exactly one", len(recipients))
	}
	return recipients[0], nil
}

// Unlock opens the sealed private key with the passphrase and returns a
// context that can read armored exports.
func (e *AgeEncryptor) Unlock(passphrase string) (inv.DecryptionContext, error) {
	f, err := os.Open(e.keyPath)
	if err != nil {
		return nil, fmt.Errorf("opening private key: %w", err)
	}
	defer f.Close()

	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("deriving passphrase key: %w", err)
	}

	sealed, err := age.Decrypt(f, scrypt)
	if err != nil {
		return nil, fmt.Errorf("unsealing private key: %w", err)
	}
	identities, err := age.ParseIdentities(sealed)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("private key file holds no identities")
	}

	return &AgeDecryptionContext{identity: identities[0]}, nil
}

// AgeDecryptionContext is an unlocked identity for reading armored exports.
type AgeDecryptionContext struct {
	identity age.Identity
}

var _ inv.DecryptionContext = (*AgeDecryptionContext)(nil)

// Decrypt reads an armored export from r and writes the plaintext TOML to w.
func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	pr, err := age.Decrypt(armor.NewReader(r), c.identity)
	if err != nil {
		return fmt.Errorf("opening export: %w", err)
	}
	if _, err := io.Copy(w, pr); err != nil {
		return fmt.Errorf("reading export: %w", err)
	}
	return nil
}
