package bolt

import (
	"encoding/binary"
	"io"
)

// handshakeMagic is the 4-byte preamble every Bolt handshake request
// starts with, spec.md §4.4.
const handshakeMagic = 0x6060B017

// MaxProposedVersions is the number of version-proposal slots in a
// handshake request; unused slots are zero.
const MaxProposedVersions = 4

// BuildHandshakeRequest encodes up to MaxProposedVersions proposals into
// the fixed 20-byte handshake request: the magic preamble followed by
// four 4-byte version slots (00 00 minor major), zero-padded.
func BuildHandshakeRequest(proposed []Version) ([20]byte, error) {
	if len(proposed) > MaxProposedVersions {
		return [20]byte{}, newErr(InvalidArgument, "at most 4 versions may be proposed")
	}
	var out [20]byte
	binary.BigEndian.PutUint32(out[0:4], handshakeMagic)
	for i := 0; i < MaxProposedVersions; i++ {
		off := 4 + i*4
		if i < len(proposed) {
			out[off+2] = proposed[i].Minor
			out[off+3] = proposed[i].Major
		}
	}
	return out, nil
}

// ParseHandshakeResponse decodes the server's 4-byte chosen version. An
// all-zero response means no proposal matched and is a HandshakeFailed
// error, not a zero Version.
func ParseHandshakeResponse(resp [4]byte) (Version, error) {
	if resp == [4]byte{0, 0, 0, 0} {
		return Version{}, newErr(HandshakeFailed, "server rejected all proposed versions")
	}
	return Version{Major: resp[3], Minor: resp[2]}, nil
}

// PerformHandshake runs BuildHandshakeRequest/ParseHandshakeResponse over
// an actual transport: write the 20-byte request, read the 4-byte
// response, parse it.
func PerformHandshake(rw io.ReadWriter, proposed []Version) (Version, error) {
	req, err := BuildHandshakeRequest(proposed)
	if err != nil {
		return Version{}, err
	}
	if _, err := rw.Write(req[:]); err != nil {
		return Version{}, wrapErr(NetworkError, "write handshake request", err)
	}

	var resp [4]byte
	if _, err := io.ReadFull(rw, resp[:]); err != nil {
		return Version{}, wrapErr(NetworkError, "read handshake response", err)
	}
	return ParseHandshakeResponse(resp)
}
