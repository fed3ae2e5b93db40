// Package verifier описывает внешние криптографические проверки.
//
// Ядро не зависит от конкретной реализации: в проде подключается проверка
// реальных доказательств, в тестах и на стенде — заглушки.
package verifier

import (
	"golang.org/x/crypto/ed25519"
)

// ProofVerifier проверяет доказательство того, что транзакция действительно
// состоялась на площадке.
type ProofVerifier interface {
	VerifyProof(proof string) bool
}

// SignatureVerifier проверяет подпись отправителя под телом отзыва.
type SignatureVerifier interface {
	VerifySignature(message, signature, publicKey []byte) bool
}

// AcceptAllProofs — заглушка, принимающая любое доказательство.
// Интеграция с платёжным контуром ещё не реализована.
type AcceptAllProofs struct{}

func (AcceptAllProofs) VerifyProof(string) bool { return true }

// AcceptAllSignatures — заглушка, принимающая любую подпись.
type AcceptAllSignatures struct{}

func (AcceptAllSignatures) VerifySignature(_, _, _ []byte) bool { return true }

// Ed25519Verifier проверяет подписи ed25519.
type Ed25519Verifier struct{}

func (Ed25519Verifier) VerifySignature(message, signature, publicKey []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}
