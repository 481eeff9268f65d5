package lifecycle

import (
	"bytes"
	"testing"

	"github.com/forgeworks/lathe/internal/parts"
	"github.com/forgeworks/lathe/internal/state"
)

func overlayPart(script string) *parts.Part {
	return parts.New("foo", map[string]any{
		"overlay-script":   script,
		"overlay-packages": []any{"ca-certificates"},
	}, parts.ProjectDirs{Work: "/work"})
}

func TestLayerHashDeterministic(t *testing.T) {
	p := overlayPart("touch a")

	a := ComputeLayerHash(p, nil)
	b := ComputeLayerHash(p, nil)
	if !bytes.Equal(a, b) {
		t.Fatalf("same inputs hashed differently: %s vs %s", a, b)
	}
}

func TestLayerHashTracksParameters(t *testing.T) {
	base := ComputeLayerHash(overlayPart("touch a"), nil)
	changed := ComputeLayerHash(overlayPart("touch b"), nil)
	if bytes.Equal(base, changed) {
		t.Fatal("changing the overlay script must change the hash")
	}
}

func TestLayerHashChains(t *testing.T) {
	p := overlayPart("touch a")

	lower := ComputeLayerHash(overlayPart("touch base"), nil)
	onLower := ComputeLayerHash(p, lower)
	onNothing := ComputeLayerHash(p, nil)
	if bytes.Equal(onLower, onNothing) {
		t.Fatal("a changed lower layer must change the hash above it")
	}
}

func TestLayerHashStorableInState(t *testing.T) {
	h := ComputeLayerHash(overlayPart("touch a"), nil)

	if _, err := state.NewBuildState(state.Snapshot{}, nil, h.String()); err != nil {
		t.Fatalf("layer hash rejected by state validation: %v", err)
	}
}
