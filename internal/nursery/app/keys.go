package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/nursery/pkg/cryptox"
	"github.com/aussiebroadwan/nursery/pkg/jwtx"
)

// ClientKeys is the signing material for client tokens.
type ClientKeys struct {
	KeySet   *jwtx.KeySet
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
}

// InitClientKeys loads the Ed25519 signing key from cfg.SigningKeyFile,
// generating it on first start. Keeping the key on disk lets client cookies
// survive restarts.
func InitClientKeys(cfg Config, logger *slog.Logger) (*ClientKeys, error) {
	pem, err := cryptox.LoadOrGenerateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	kid, err := jwtx.KIDFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key id: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(kid, pem)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("failed to register signer: %w", err)
	}

	logger.Info("client token signing key loaded",
		"kid", kid,
		"algorithm", signer.Alg(),
		"issuer", cfg.Issuer,
	)

	return &ClientKeys{
		KeySet:   keys,
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(keys, cfg.Issuer, []string{jwtx.ClientAudience}),
	}, nil
}
