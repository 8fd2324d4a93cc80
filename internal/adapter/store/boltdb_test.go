package store

import (
	"path/filepath"
	"testing"

	"stdphrase/config"
)

func openTestStore(t *testing.T) (*BoltStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	st, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	return st, path
}

func TestBoltStore_PutGet(t *testing.T) {
	st, _ := openTestStore(t)
	defer st.Close()

	err := st.PutVectors(map[string][]float32{
		"a": {1, 0},
		"b": {0, 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := st.GetVectors([]string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got["a"][0] != 1 || got["b"][1] != 1 {
		t.Errorf("unexpected vectors: %v", got)
	}

	n, err := st.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	st, path := openTestStore(t)
	if err := st.PutVectors(map[string][]float32{"k": {0.5, 0.5}}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	reopened, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.GetVectors([]string{"k"})
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := got["k"]; !ok || v[0] != 0.5 {
		t.Errorf("expected persisted vector, got %v", got)
	}
}

func TestBoltStore_Clear(t *testing.T) {
	st, _ := openTestStore(t)
	defer st.Close()

	if err := st.PutVectors(map[string][]float32{"k": {1}}); err != nil {
		t.Fatal(err)
	}
	if err := st.Clear(); err != nil {
		t.Fatal(err)
	}
	n, _ := st.Count()
	if n != 0 {
		t.Errorf("expected empty store after clear, got %d", n)
	}
}

func TestPrepare_ModelChangeClearsCache(t *testing.T) {
	st, _ := openTestStore(t)
	defer st.Close()

	cfg := config.DefaultConfig()
	reason, err := st.Prepare(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if reason != "" {
		t.Errorf("expected no rebuild on fresh cache, got %q", reason)
	}
	if err := st.PutVectors(map[string][]float32{"k": {1}}); err != nil {
		t.Fatal(err)
	}

	// Same config: vectors survive.
	if _, err := st.Prepare(cfg); err != nil {
		t.Fatal(err)
	}
	if n, _ := st.Count(); n != 1 {
		t.Fatalf("expected vector to survive, got count %d", n)
	}

	changed := config.DefaultConfig()
	changed.Embedding.Model = "another-model"
	reason, err = st.Prepare(changed)
	if err != nil {
		t.Fatal(err)
	}
	if reason != "embedding model changed" {
		t.Errorf("expected model change reason, got %q", reason)
	}
	if n, _ := st.Count(); n != 0 {
		t.Errorf("expected cache cleared, got count %d", n)
	}

	info, err := st.GetSchemaInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Version != CurrentSchemaVersion || info.ModelHash != ComputeModelHash(changed) {
		t.Errorf("schema info not refreshed: %+v", info)
	}
}

func TestCheckMigration_NewerVersionRebuilds(t *testing.T) {
	st, _ := openTestStore(t)
	defer st.Close()

	if err := st.SetSchemaInfo(&SchemaInfo{Version: CurrentSchemaVersion + 1}); err != nil {
		t.Fatal(err)
	}
	result, err := st.CheckMigration(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !result.NeedsRebuild {
		t.Error("expected rebuild for newer schema version")
	}
}

func TestComputeModelHash_TracksONNXFiles(t *testing.T) {
	base := config.DefaultConfig()
	base.Embedding.Provider = "onnx"
	base.Embedding.ONNX.ModelPath = "models/minilm.onnx"
	base.Embedding.ONNX.Tokenizer = "models/tokenizer.json"

	tok := config.DefaultConfig()
	tok.Embedding = base.Embedding
	tok.Embedding.ONNX.Tokenizer = "models/other-tokenizer.json"
	if ComputeModelHash(base) == ComputeModelHash(tok) {
		t.Error("expected tokenizer change to change the model hash")
	}

	same := config.DefaultConfig()
	same.Embedding = base.Embedding
	if ComputeModelHash(base) != ComputeModelHash(same) {
		t.Error("expected identical settings to hash equally")
	}
}
