package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hex.EncodeToString(crypto.FromECDSA(key))

	for _, in := range []string{hexKey, "0x" + hexKey, " " + hexKey + "\n"} {
		parsed, err := ParsePrivateKey(in)
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(parsed.PublicKey))
	}

	_, err = ParsePrivateKey("not-a-key")
	assert.Error(t, err)
}

func TestLoadPrivateKeyFromVault(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := "0x" + hex.EncodeToString(crypto.FromECDSA(key))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/secret/data/mrv/deployer":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"data":     map[string]any{"private_key": hexKey},
					"metadata": map[string]any{"version": 1},
				},
			})
		case "/v1/kv/deployer":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"key": hexKey},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
		}
	}))
	defer srv.Close()

	vc, err := NewVaultClient(srv.URL)
	require.NoError(t, err)
	vc.SetToken("test-token")

	ctx := context.Background()
	want := crypto.PubkeyToAddress(key.PublicKey)

	parsed, err := LoadPrivateKey(ctx, "vault://secret/data/mrv/deployer#private_key", vc)
	require.NoError(t, err)
	assert.Equal(t, want, crypto.PubkeyToAddress(parsed.PublicKey))

	parsed, err = LoadPrivateKey(ctx, "vault://kv/deployer#key", vc)
	require.NoError(t, err)
	assert.Equal(t, want, crypto.PubkeyToAddress(parsed.PublicKey))

	_, err = LoadPrivateKey(ctx, "vault://kv/deployer#missing", vc)
	assert.ErrorContains(t, err, "missing")

	_, err = LoadPrivateKey(ctx, "vault://kv/absent#key", vc)
	assert.Error(t, err)
}

func TestLoadPrivateKeyRefs(t *testing.T) {
	ctx := context.Background()

	_, err := LoadPrivateKey(ctx, "", nil)
	assert.ErrorIs(t, err, ErrNoPrivateKey)

	_, err = LoadPrivateKey(ctx, "vault://secret#field", nil)
	assert.ErrorIs(t, err, ErrInvalidKeyRef)

	_, err = LoadPrivateKey(ctx, "vault://secret/deployer", nil)
	assert.ErrorIs(t, err, ErrInvalidKeyRef)
}
