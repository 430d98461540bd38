package timelock

import (
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/drand/dee/chain"
)

// Encrypt reads plaintext from src and writes an age-compatible
// streaming ciphertext to dst, encrypted to round on the chain
// described by info. If withArmor is set, the container is wrapped in
// PEM-style ASCII armor. Encryption against a chained chain fails with
// dee.EncryptionUnsupportedError.
func Encrypt(dst io.Writer, src io.Reader, info *chain.Info, round uint64, withArmor bool) error {
	recipient, err := NewRecipient(info, round)
	if err != nil {
		return err
	}

	out := dst
	var armorWriter io.WriteCloser
	if withArmor {
		armorWriter = armor.NewWriter(dst)
		out = armorWriter
	}

	w, err := age.Encrypt(out, recipient)
	if err != nil {
		return fmt.Errorf("timelock: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("timelock: streaming plaintext: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("timelock: closing container: %w", err)
	}
	if armorWriter != nil {
		if err := armorWriter.Close(); err != nil {
			return fmt.Errorf("timelock: closing armor: %w", err)
		}
	}
	return nil
}
