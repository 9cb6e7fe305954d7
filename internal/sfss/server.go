// Package sfss implements the Simple File Storage Service: a
// stateless UDP server that answers SFP requests against a root
// directory tree of per-owner subdirectories.
package sfss

import (
	"fmt"
	"net"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/logging"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

// Server answers SFP datagrams rooted at root.
type Server struct {
	root string
	conn *net.UDPConn
}

// Listen binds a UDP socket on port and returns a Server rooted at
// root. The caller must ensure root/A0..AN already exist.
func Listen(root string, port int) (*Server, error) {
	addr := &net.UDPAddr{Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("sfss: listen :%d: %w", port, err)
	}
	return &Server{root: root, conn: conn}, nil
}

// Close releases the underlying socket.
func (s *Server) Close() error { return s.conn.Close() }

// Serve loops forever, answering one datagram at a time — the
// original simulator is strictly sequential, no per-request
// goroutines, so replies never reorder ahead of later requests from
// the same sender.
func (s *Server) Serve() error {
	buf := make([]byte, sfp.Size)
	for {
		n, from, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			logging.Error("sfss: recv: %v", err)
			continue
		}

		req, err := sfp.Decode(buf[:n])
		if err != nil {
			logging.Error("sfss: decode: %v", err)
			continue
		}

		res := s.dispatch(req)

		encoded, err := sfp.Encode(res)
		if err != nil {
			logging.Error("sfss: encode reply: %v", err)
			continue
		}
		if _, err := s.conn.WriteToUDP(encoded, from); err != nil {
			logging.Error("sfss: send reply to %v: %v", from, err)
		}
	}
}

func (s *Server) dispatch(req *sfp.Message) *sfp.Message {
	switch req.Type {
	case sfp.RdReq:
		return s.handleRead(req)
	case sfp.WrReq:
		return s.handleWrite(req)
	case sfp.DcReq:
		return s.handleDirCreate(req)
	case sfp.DrReq:
		return s.handleDirRemove(req)
	case sfp.DlReq:
		return s.handleDirList(req)
	default:
		res := &sfp.Message{Type: sfp.UnknownRep, Owner: req.Owner}
		res.SetStatus(sfp.StatusUnknownType)
		logging.Warn("sfss: unknown request type %v from owner %d", req.Type, req.Owner)
		return res
	}
}
