package boltconfig

import "testing"

func TestLoadMinimal(t *testing.T) {
	raw := []byte(`{"uri":"neo4j://localhost:7687","userAgent":"lib/0.1"}`)
	cfg, err := Load(raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.URI != "neo4j://localhost:7687" || cfg.UserAgent != "lib/0.1" {
		t.Errorf("decoded fields mismatch: %+v", cfg)
	}
	if len(cfg.ProposedVersions) == 0 {
		t.Error("expected default proposed versions to be filled in")
	}
	if cfg.PoolSize != 10 {
		t.Errorf("pool size default: got %d want 10", cfg.PoolSize)
	}
}

func TestLoadRejectsMissingUserAgent(t *testing.T) {
	raw := []byte(`{"uri":"neo4j://localhost:7687"}`)
	if _, err := Load(raw); err == nil {
		t.Fatal("expected schema validation error for missing userAgent")
	}
}

func TestLoadRejectsBadTLSMode(t *testing.T) {
	raw := []byte(`{"uri":"bolt://localhost:7687","userAgent":"lib/0.1","tlsMode":"maybe"}`)
	if _, err := Load(raw); err == nil {
		t.Fatal("expected schema validation error for invalid tlsMode")
	}
}
