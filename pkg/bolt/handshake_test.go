package bolt

import (
	"bytes"
	"testing"
)

func TestBuildHandshakeRequestLayout(t *testing.T) {
	proposed := []Version{{Major: 5, Minor: 4}, {Major: 5, Minor: 0}, {Major: 4, Minor: 4}}
	req, err := BuildHandshakeRequest(proposed)
	if err != nil {
		t.Fatalf("BuildHandshakeRequest: %v", err)
	}
	if got := req[0:4]; !bytes.Equal(got, []byte{0x60, 0x60, 0xB0, 0x17}) {
		t.Errorf("wrong magic preamble\ngot: % X", got)
	}
	if got := req[4:8]; !bytes.Equal(got, []byte{0x00, 0x00, 0x04, 0x05}) {
		t.Errorf("wrong first slot (5.4)\ngot: % X\nwant: 00 00 04 05", got)
	}
	if got := req[8:12]; !bytes.Equal(got, []byte{0x00, 0x00, 0x00, 0x05}) {
		t.Errorf("wrong second slot (5.0)\ngot: % X\nwant: 00 00 00 05", got)
	}
	if got := req[12:16]; !bytes.Equal(got, []byte{0x00, 0x00, 0x04, 0x04}) {
		t.Errorf("wrong third slot (4.4)\ngot: % X\nwant: 00 00 04 04", got)
	}
	if got := req[16:20]; !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Errorf("unused slot should be zero\ngot: % X", got)
	}
}

func TestBuildHandshakeRequestTooManyVersions(t *testing.T) {
	proposed := make([]Version, 5)
	if _, err := BuildHandshakeRequest(proposed); err == nil {
		t.Fatal("expected error for more than 4 proposed versions")
	}
}

func TestParseHandshakeResponse(t *testing.T) {
	v, err := ParseHandshakeResponse([4]byte{0x00, 0x00, 0x00, 0x05})
	if err != nil {
		t.Fatalf("ParseHandshakeResponse: %v", err)
	}
	if v.Major != 5 || v.Minor != 0 {
		t.Errorf("wrong parsed version\ngot: %s\nwant: 5.0", v)
	}
}

func TestParseHandshakeResponseNoMatch(t *testing.T) {
	_, err := ParseHandshakeResponse([4]byte{0, 0, 0, 0})
	if CodeOf(err) != HandshakeFailed {
		t.Fatalf("wrong error for no-match response\ngot: %v\nwant: HandshakeFailed", err)
	}
}

func TestPerformHandshakeEndToEnd(t *testing.T) {
	proposed := []Version{{5, 4}, {5, 0}, {4, 4}, {}}
	server := func() []byte {
		// Simulate a server that picks the first proposal.
		return []byte{0x00, 0x00, proposed[0].Minor, proposed[0].Major}
	}()

	pipe := &fakeDuplex{toServer: &bytes.Buffer{}, fromServer: bytes.NewReader(server)}
	v, err := PerformHandshake(pipe, proposed)
	if err != nil {
		t.Fatalf("PerformHandshake: %v", err)
	}
	if v != proposed[0] {
		t.Errorf("wrong negotiated version\ngot: %s\nwant: %s", v, proposed[0])
	}
	if pipe.toServer.Len() != 20 {
		t.Errorf("wrong handshake request size\ngot: %d\nwant: 20", pipe.toServer.Len())
	}
}

type fakeDuplex struct {
	toServer   *bytes.Buffer
	fromServer *bytes.Reader
}

func (f *fakeDuplex) Write(p []byte) (int, error) { return f.toServer.Write(p) }
func (f *fakeDuplex) Read(p []byte) (int, error)  { return f.fromServer.Read(p) }
