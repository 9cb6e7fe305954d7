package sfp

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg := &Message{
		Type:    WrReq,
		Owner:   3,
		Path:    "/A3/file.txt",
		PathLen: len("/A3/file.txt"),
		Offset:  32,
	}
	copy(msg.Payload[:], "Hello")

	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) != Size {
		t.Fatalf("Encode: got %d bytes, want %d", len(data), Size)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Type != msg.Type || got.Owner != msg.Owner || got.Path != msg.Path || got.Offset != msg.Offset {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, msg)
	}
	if got.Payload != msg.Payload {
		t.Fatalf("payload mismatch: got %v, want %v", got.Payload, msg.Payload)
	}
}

func TestDecodeDirListing(t *testing.T) {
	msg := &Message{
		Type:  DlRep,
		Owner: 4,
		Names: "subREADME",
		Entries: []DirEntry{
			{Start: 0, End: 2, IsDir: true},  // "sub"
			{Start: 3, End: 8, IsDir: false}, // "README"
		},
		NrNames: 2,
	}
	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.NrNames != 2 || len(got.Entries) != 2 {
		t.Fatalf("got %d entries (nrnames=%d), want 2", len(got.Entries), got.NrNames)
	}
	name0 := got.Names[got.Entries[0].Start : got.Entries[0].End+1]
	if name0 != "sub" || !got.Entries[0].IsDir {
		t.Fatalf("entry 0 = %q dir=%v, want sub/true", name0, got.Entries[0].IsDir)
	}
	name1 := got.Names[got.Entries[1].Start : got.Entries[1].End+1]
	if name1 != "README" || got.Entries[1].IsDir {
		t.Fatalf("entry 1 = %q dir=%v, want README/false", name1, got.Entries[1].IsDir)
	}
}

func TestStatusOverloading(t *testing.T) {
	cases := []struct {
		msg  Message
		want int
	}{
		{Message{Type: RdRep, Offset: -1}, StatusPermission},
		{Message{Type: WrRep, Offset: 16}, 16},
		{Message{Type: DcRep, PathLen: -4}, StatusIO},
		{Message{Type: DrRep, PathLen: 5}, 5},
		{Message{Type: DlRep, NrNames: -2}, StatusNotFound},
		{Message{Type: UnknownRep, Offset: StatusUnknownType}, StatusUnknownType},
	}
	for _, c := range cases {
		if got := c.msg.Status(); got != c.want {
			t.Errorf("%s.Status() = %d, want %d", c.msg.Type, got, c.want)
		}
		if ok := c.msg.OK(); ok != (c.want >= 0) {
			t.Errorf("%s.OK() = %v, want %v", c.msg.Type, ok, c.want >= 0)
		}
	}
}

func TestSetStatusUnknownRep(t *testing.T) {
	msg := &Message{Type: UnknownRep}
	msg.SetStatus(StatusUnknownType)
	if msg.Status() != StatusUnknownType {
		t.Fatalf("UnknownRep.Status() = %d, want %d", msg.Status(), StatusUnknownType)
	}
}

func TestReplyType(t *testing.T) {
	if RdReq.Reply() != RdRep || WrReq.Reply() != WrRep || DlReq.Reply() != DlRep {
		t.Fatal("Reply() should mirror REQ -> REP")
	}
	if !RdRep.IsFileReply() || !WrRep.IsFileReply() {
		t.Fatal("RD_REP/WR_REP should be file replies")
	}
	if !DcRep.IsDirReply() || !DrRep.IsDirReply() || !DlRep.IsDirReply() {
		t.Fatal("DC/DR/DL REP should be dir replies")
	}
}
