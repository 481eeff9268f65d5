package state

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/forgeworks/lathe/internal/steps"
)

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// A valid persisted build state mapping, as it appears after YAML decoding.
func buildStateData() map[string]any {
	return map[string]any{
		"part-properties": map[string]any{
			"after":          []any{"base"},
			"override-build": "make",
		},
		"project-options": map[string]any{
			"project-vars-part-name": "adopt-info",
		},
		"files":       []any{"bin/tool", "lib/libtool.so"},
		"directories": []any{"bin", "lib"},
		"assets":      map[string]any{"build-packages": []any{"gcc=12.1"}},
	}
}

func TestUnmarshalMarshalRoundTrip(t *testing.T) {
	d := buildStateData()

	s, err := UnmarshalBuildState(d)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	m := s.Marshal()

	// Sets come back as sorted slices; compare semantically.
	if got := m["files"]; !reflect.DeepEqual(got, []string{"bin/tool", "lib/libtool.so"}) {
		t.Fatalf("files = %v", got)
	}
	if got := m["directories"]; !reflect.DeepEqual(got, []string{"bin", "lib"}) {
		t.Fatalf("directories = %v", got)
	}
	if !reflect.DeepEqual(m["part-properties"], d["part-properties"]) {
		t.Fatalf("part-properties = %v, want %v", m["part-properties"], d["part-properties"])
	}
	if !reflect.DeepEqual(m["project-options"], d["project-options"]) {
		t.Fatalf("project-options = %v, want %v", m["project-options"], d["project-options"])
	}
	if !reflect.DeepEqual(m["assets"], d["assets"]) {
		t.Fatalf("assets = %v, want %v", m["assets"], d["assets"])
	}

	// A second unmarshal of the marshaled form yields an equal state.
	again, err := UnmarshalBuildState(m)
	if err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if !reflect.DeepEqual(again.Marshal(), m) {
		t.Fatal("marshal is not stable across a round trip")
	}
}

func TestUnmarshalRejectsNonMapping(t *testing.T) {
	for _, data := range []any{nil, "text", 42, []any{"list"}} {
		if _, err := UnmarshalBuildState(data); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Unmarshal(%v) error = %v, want ErrInvalidState", data, err)
		}
	}
}

func TestUnmarshalPartitions(t *testing.T) {
	s, err := UnmarshalStageState(map[string]any{
		"files":       []any{"a"},
		"directories": []any{"b"},
		"partitions-contents": map[string]any{
			"mondo": map[string]any{
				"files":       []any{"bar"},
				"directories": []any{"baz"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	c := s.Contents("mondo")
	if c == nil || !c.Files.Equal(NewSet("bar")) {
		t.Fatalf("Contents(mondo) = %v", c)
	}

	m := s.Marshal()
	pc, ok := m["partitions-contents"].(map[string]any)
	if !ok {
		t.Fatalf("partitions-contents missing from marshal: %v", m)
	}
	if _, ok := pc["mondo"]; !ok {
		t.Fatal("mondo partition missing from marshaled contents")
	}
}

func TestUnmarshalDispatch(t *testing.T) {
	tests := []struct {
		step steps.Step
		want any
	}{
		{steps.Pull, &PullState{}},
		{steps.Overlay, &OverlayState{}},
		{steps.Build, &BuildState{}},
		{steps.Stage, &StageState{}},
		{steps.Prime, &PrimeState{}},
	}

	for _, tt := range tests {
		got, err := Unmarshal(tt.step, map[string]any{})
		if err != nil {
			t.Fatalf("Unmarshal(%v): %v", tt.step, err)
		}
		if reflect.TypeOf(got) != reflect.TypeOf(tt.want) {
			t.Errorf("Unmarshal(%v) = %T, want %T", tt.step, got, tt.want)
		}
	}

	if _, err := Unmarshal(steps.Step(99), map[string]any{}); !errors.Is(err, ErrInvalidState) {
		t.Fatal("unknown step did not fail")
	}
}

func TestWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "build")

	s, err := UnmarshalBuildState(buildStateData())
	if err != nil {
		t.Fatal(err)
	}

	// Parent directories are created as needed.
	if err := Write(s, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := Load(path, steps.Build)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("load returned nil for an existing state")
	}

	if !reflect.DeepEqual(loaded.Marshal(), s.Marshal()) {
		t.Fatalf("loaded state differs:\ngot:  %v\nwant: %v", loaded.Marshal(), s.Marshal())
	}
}

func TestLoadMissingState(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent"), steps.Pull)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != nil {
		t.Fatalf("load = %v, want nil for missing state", s)
	}
}

func TestLoadMalformedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken")
	if err := writeRaw(path, "{unclosed: [\n"); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, steps.Pull); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("load error = %v, want ErrInvalidState", err)
	}
}

func TestWriteInvalidStateFails(t *testing.T) {
	s := &BuildState{OverlayHash: "not-hex"}
	path := filepath.Join(t.TempDir(), "build")

	if err := Write(s, path); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("write error = %v, want ErrInvalidState", err)
	}

	// Nothing was persisted.
	if _, err := Load(path, steps.Build); err != nil {
		t.Fatal(err)
	}
}
