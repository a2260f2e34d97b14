package bolt

import (
	"bytes"
	"testing"
)

func TestChunkWriteEmptyPayloadIsJustEOM(t *testing.T) {
	var buf bytes.Buffer
	if err := ChunkWrite(&buf, nil); err != nil {
		t.Fatalf("ChunkWrite: %v", err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, []byte{0x00, 0x00}) {
		t.Errorf("empty payload framing\ngot: % X\nwant: 00 00", got)
	}
}

func TestChunkReadOfEOMIsEmpty(t *testing.T) {
	buf := bytes.NewReader([]byte{0x00, 0x00})
	payload, err := ChunkRead(buf)
	if err != nil {
		t.Fatalf("ChunkRead: %v", err)
	}
	if len(payload) != 0 {
		t.Errorf("wrong payload for EOM\ngot: %v\nwant: empty", payload)
	}
}

func TestChunkRoundTripSmall(t *testing.T) {
	payload := []byte("hello bolt")
	var buf bytes.Buffer
	if err := ChunkWrite(&buf, payload); err != nil {
		t.Fatalf("ChunkWrite: %v", err)
	}
	got, err := ChunkRead(&buf)
	if err != nil {
		t.Fatalf("ChunkRead: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch\ngot: %q\nwant: %q", got, payload)
	}
}

func TestChunkSplitAtExactly65535(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 65535)
	var buf bytes.Buffer
	if err := ChunkWrite(&buf, payload); err != nil {
		t.Fatalf("ChunkWrite: %v", err)
	}
	// one chunk header (2 bytes) + 65535 payload bytes + EOM (2 bytes)
	if want := 2 + 65535 + 2; buf.Len() != want {
		t.Errorf("wrong wire size for exactly-65535 payload\ngot: %d\nwant: %d", buf.Len(), want)
	}
	got, err := ChunkRead(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ChunkRead: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch for 65535-byte payload")
	}
}

func TestChunkSplit70000Bytes(t *testing.T) {
	payload := make([]byte, 70000)
	for i := range payload {
		payload[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := ChunkWrite(&buf, payload); err != nil {
		t.Fatalf("ChunkWrite: %v", err)
	}

	wire := buf.Bytes()
	if got := wire[0:2]; !bytes.Equal(got, []byte{0xFF, 0xFF}) {
		t.Errorf("first chunk length header\ngot: % X\nwant: FF FF", got)
	}
	secondLenOffset := 2 + 65535
	secondLen := int(wire[secondLenOffset])<<8 | int(wire[secondLenOffset+1])
	if secondLen != 70000-65535 {
		t.Errorf("second chunk length\ngot: %d\nwant: %d", secondLen, 70000-65535)
	}
	eomOffset := secondLenOffset + 2 + secondLen
	if got := wire[eomOffset : eomOffset+2]; !bytes.Equal(got, []byte{0x00, 0x00}) {
		t.Errorf("missing EOM after second chunk\ngot: % X\nwant: 00 00", got)
	}

	got, err := ChunkRead(bytes.NewReader(wire))
	if err != nil {
		t.Fatalf("ChunkRead: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch for 70000-byte payload")
	}
}

func TestChunkReadToleratesLeadingNOOP(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00}) // NOOP
	if err := ChunkWrite(&buf, []byte("record")); err != nil {
		t.Fatalf("ChunkWrite: %v", err)
	}

	// First ChunkRead call observes the NOOP and returns empty; caller
	// skips it and reads again for the real message (spec.md §4.3/§8.6).
	first, err := ChunkRead(&buf)
	if err != nil {
		t.Fatalf("ChunkRead (NOOP): %v", err)
	}
	if len(first) != 0 {
		t.Fatalf("expected empty NOOP payload, got %q", first)
	}

	second, err := ChunkRead(&buf)
	if err != nil {
		t.Fatalf("ChunkRead (message): %v", err)
	}
	if string(second) != "record" {
		t.Errorf("wrong payload after NOOP\ngot: %q\nwant: %q", second, "record")
	}
}

func TestChunkReadRespectsSizeLimit(t *testing.T) {
	var buf bytes.Buffer
	if err := ChunkWrite(&buf, bytes.Repeat([]byte{1}, 100)); err != nil {
		t.Fatalf("ChunkWrite: %v", err)
	}
	_, err := ChunkReadWithLimit(&buf, 10)
	if CodeOf(err) != MessageTooLarge {
		t.Fatalf("wrong error for oversized message\ngot: %v\nwant: MessageTooLarge", err)
	}
}
