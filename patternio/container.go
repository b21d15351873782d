package patternio

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/glasslab/optical5d/optical"
)

// Container framing around the JSON projection, written once at the head
// of a pattern file. Layout:
//
//	MAGIC    4B   "O5DP"
//	VERSION  u16  0x0001
//	BODYLEN  u64  exact length of the JSON body
//	SHA256   32B  digest of the JSON body
//	RESERVED 8B   zeros
const (
	containerMagic = "O5DP"
	containerLen   = 4 + 2 + 8 + 32 + 8
)

// maxContainerBody caps how much ReadFrom is willing to allocate for a
// declared body length. A full 1 MiB payload on a one-bit lattice stays
// well under this.
const maxContainerBody = 1 << 30

type containerHeader struct {
	Version uint16
	BodyLen uint64
	SHA256  [32]byte
}

func (h *containerHeader) marshal() []byte {
	b := make([]byte, containerLen)
	copy(b[0:4], containerMagic)
	binary.LittleEndian.PutUint16(b[4:6], h.Version)
	binary.LittleEndian.PutUint64(b[6:14], h.BodyLen)
	copy(b[14:46], h.SHA256[:])
	// reserved zeros 46:54
	return b
}

func (h *containerHeader) unmarshal(b []byte) error {
	if len(b) < containerLen {
		return errors.New("short container header")
	}
	if string(b[0:4]) != containerMagic {
		return errors.New("bad container magic")
	}
	h.Version = binary.LittleEndian.Uint16(b[4:6])
	if h.Version != 1 {
		return fmt.Errorf("unsupported container version %d", h.Version)
	}
	h.BodyLen = binary.LittleEndian.Uint64(b[6:14])
	copy(h.SHA256[:], b[14:46])
	return nil
}

// WriteTo serializes the pattern to w: container header, then JSON body.
func WriteTo(w io.Writer, p *optical.StoragePattern) error {
	body, err := MarshalPattern(p)
	if err != nil {
		return err
	}
	h := containerHeader{Version: 1, BodyLen: uint64(len(body)), SHA256: sha256.Sum256(body)}
	if _, err := w.Write(h.marshal()); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// ReadFrom parses a pattern written by WriteTo, rejecting bodies whose
// digest does not match the header.
func ReadFrom(r io.Reader) (*optical.StoragePattern, error) {
	hb := make([]byte, containerLen)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, err
	}
	var h containerHeader
	if err := h.unmarshal(hb); err != nil {
		return nil, err
	}
	if h.BodyLen > maxContainerBody {
		return nil, fmt.Errorf("container body of %d bytes exceeds the %d byte cap", h.BodyLen, maxContainerBody)
	}
	body := make([]byte, h.BodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	if sha256.Sum256(body) != h.SHA256 {
		return nil, errors.New("container body digest mismatch")
	}
	return UnmarshalPattern(body)
}
