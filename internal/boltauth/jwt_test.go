package boltauth

import (
	"strings"
	"testing"
	"time"
)

func TestBearerTokenBuilderProducesBearerScheme(t *testing.T) {
	b := NewBearerTokenBuilder([]byte("test-signing-key"), "bolt-go", time.Minute)
	auth, err := b.Build("alice")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	scheme, ok := auth["scheme"].AsString()
	if !ok || scheme != "bearer" {
		t.Fatalf("scheme: got %v", auth["scheme"])
	}
	cred, ok := auth["credentials"].AsString()
	if !ok || strings.Count(cred, ".") != 2 {
		t.Fatalf("credentials should be a 3-part JWT, got %q", cred)
	}
}

func TestBasicAuth(t *testing.T) {
	auth := BasicAuth("neo4j", "password")
	if s, _ := auth["scheme"].AsString(); s != "basic" {
		t.Errorf("scheme: got %q", s)
	}
	if s, _ := auth["principal"].AsString(); s != "neo4j" {
		t.Errorf("principal: got %q", s)
	}
}
