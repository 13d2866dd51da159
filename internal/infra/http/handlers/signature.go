package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

const SignatureHeader = "X-Webhook-Signature"

var (
	errMissingSignature = errors.New("assinatura ausente")
	errInvalidSignature = errors.New("assinatura inválida")
	errUnknownChannel   = errors.New("canal ausente ou desconhecido")
)

// SignatureVerifier confere o HMAC-SHA256 (hex) do corpo cru com o segredo do canal.
// Canais sem segredo configurado aceitam chamadas sem assinatura. Com algum
// segredo configurado, o canal do payload precisa ser um canal válido.
type SignatureVerifier struct {
	secrets map[entity.Channel]string
}

func NewSignatureVerifier(secrets map[entity.Channel]string) *SignatureVerifier {
	return &SignatureVerifier{secrets: secrets}
}

func (v *SignatureVerifier) Verify(ch entity.Channel, body []byte, header string) error {
	if v.protected() && !ch.Valid() {
		return errUnknownChannel
	}

	secret, ok := v.secrets[ch]
	header = strings.TrimSpace(header)
	if !ok || secret == "" {
		return nil
	}
	if header == "" {
		return errMissingSignature
	}

	got, err := hex.DecodeString(strings.TrimPrefix(header, "sha256="))
	if err != nil {
		return errInvalidSignature
	}
	if !hmac.Equal(got, Sign(secret, body)) {
		return errInvalidSignature
	}
	return nil
}

func (v *SignatureVerifier) protected() bool {
	for _, secret := range v.secrets {
		if secret != "" {
			return true
		}
	}
	return false
}

func Sign(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
