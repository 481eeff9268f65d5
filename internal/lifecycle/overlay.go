package lifecycle

import (
	"encoding/hex"
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/forgeworks/lathe/internal/parts"
)

// Part properties that parameterize a part's overlay layer. Changing any of
// them invalidates the layer and every layer stacked above it.
var overlayParameters = []string{
	"overlay-packages",
	"overlay-script",
	"overlay",
}

// Fingerprint of one part's overlay layer combined with every layer below
// it. A nil hash means no layer.
type LayerHash []byte

// The hex form stored in build and stage states.
func (h LayerHash) String() string {
	return hex.EncodeToString(h)
}

// Computes the layer hash for a part stacked on top of the layer identified
// by previous. Because the previous hash is folded in, a change to any
// lower layer changes every hash above it.
func ComputeLayerHash(p *parts.Part, previous LayerHash) LayerHash {
	digester := digest.SHA256.Digester()
	w := digester.Hash()

	for _, key := range overlayParameters {
		fmt.Fprintf(w, "%s=%v\n", key, p.Properties[key])
	}
	w.Write(previous)

	raw, err := hex.DecodeString(digester.Digest().Encoded())
	if err != nil {
		// Encoded() of a sha256 digest is always valid hex.
		panic(err)
	}
	return raw
}
