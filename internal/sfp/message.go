// Package sfp implements the Simple File Protocol: the fixed-size
// request/reply record exchanged between the kernel and SFSS.
package sfp

// MsgType identifies one of the ten SFP record variants. Reply types
// are always request type + 1, mirroring the C enum this protocol was
// ported from.
type MsgType int32

const (
	RdReq MsgType = iota
	RdRep
	WrReq
	WrRep
	DcReq
	DcRep
	DrReq
	DrRep
	DlReq
	DlRep

	// UnknownRep is the reply type for a request whose Type did not
	// match any of the ten variants above — it carries StatusUnknownType
	// and nothing else.
	UnknownRep
)

func (t MsgType) String() string {
	switch t {
	case RdReq:
		return "RD_REQ"
	case RdRep:
		return "RD_REP"
	case WrReq:
		return "WR_REQ"
	case WrRep:
		return "WR_REP"
	case DcReq:
		return "DC_REQ"
	case DcRep:
		return "DC_REP"
	case DrReq:
		return "DR_REQ"
	case DrRep:
		return "DR_REP"
	case DlReq:
		return "DL_REQ"
	case DlRep:
		return "DL_REP"
	case UnknownRep:
		return "UNKNOWN_REP"
	default:
		return "UNKNOWN"
	}
}

// Reply returns the reply type that mirrors this request type.
func (t MsgType) Reply() MsgType { return t + 1 }

// IsFileReply reports whether t belongs on the file-reply FIFO.
func (t MsgType) IsFileReply() bool { return t == RdRep || t == WrRep }

// IsDirReply reports whether t belongs on the directory-reply FIFO.
func (t MsgType) IsDirReply() bool { return t == DcRep || t == DrRep || t == DlRep }

// Status codes shared across offset, path_len and nrnames depending on
// which reply kind carries them.
const (
	StatusOK          = 0
	StatusPermission  = -1
	StatusNotFound    = -2
	StatusOffsetOOB   = -3
	StatusIO          = -4
	StatusUnknownType = -100
)

const (
	PayloadSize    = 16
	MaxPath        = 512
	MaxNames       = 40
	MaxNamesBuffer = 2048
)

// DirEntry indexes one name inside Message.Names: [Start, End], both
// inclusive, within the concatenated name buffer, plus whether it is a
// directory.
type DirEntry struct {
	Start, End int32
	IsDir      bool
}

// Message is the in-memory form of an SFP record. Owner is 1..N.
// Path/Name/Payload/Names are held as Go strings/slices for ergonomic
// handling; Codec translates to and from the fixed-size wire record.
type Message struct {
	Type MsgType
	Owner int

	// PathLen doubles as the status field on DC_REP/DR_REP.
	PathLen int
	Path    string

	NameLen int
	Name    string

	// Offset doubles as the status field on RD_REP/WR_REP.
	Offset  int
	Payload [PayloadSize]byte

	// NrNames doubles as the status field on DL_REP.
	NrNames int
	Entries []DirEntry
	Names   string
}

// Status resolves the overloaded status field for m's type: each reply
// kind carries its status code in a different field (offset, path_len
// or nrnames), so callers never need to know which one applies.
func (m *Message) Status() int {
	switch m.Type {
	case RdRep, WrRep:
		return m.Offset
	case DcRep, DrRep:
		return m.PathLen
	case DlRep:
		return m.NrNames
	case UnknownRep:
		return m.Offset
	default:
		return StatusOK
	}
}

// SetStatus writes code into whichever field m's type overloads.
func (m *Message) SetStatus(code int) {
	switch m.Type {
	case RdRep, WrRep:
		m.Offset = code
	case DcRep, DrRep:
		m.PathLen = code
	case DlRep:
		m.NrNames = code
	case UnknownRep:
		m.Offset = code
	}
}

// OK reports whether the overloaded status field denotes success.
func (m *Message) OK() bool { return m.Status() >= 0 }

// NewReply builds the mirrored reply skeleton for a request: same
// owner, echoed path/offset, zeroed payload — callers then fill in
// the operation-specific fields before returning it.
func NewReply(req *Message) *Message {
	return &Message{
		Type:    req.Type.Reply(),
		Owner:   req.Owner,
		Path:    req.Path,
		PathLen: req.PathLen,
		Offset:  req.Offset,
	}
}
