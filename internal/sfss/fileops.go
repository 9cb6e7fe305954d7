package sfss

import (
	"io"
	"os"
	"path/filepath"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/logging"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

// handleRead implements RD_REQ: a fixed-size block read at req.Offset
// against the owner's block-file model.
func (s *Server) handleRead(req *sfp.Message) *sfp.Message {
	res := sfp.NewReply(req)

	if !checkPermission(req.Owner, req.Path) {
		logging.PermissionDenied(req.Owner, req.Path)
		res.SetStatus(sfp.StatusPermission)
		return res
	}

	full := s.fullPath(req.Path)
	f, err := os.Open(full)
	if err != nil {
		res.SetStatus(sfp.StatusNotFound)
		return res
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logging.IOFailed("RD stat", full, err)
		res.SetStatus(sfp.StatusIO)
		return res
	}

	fileSize := info.Size()
	if int64(req.Offset) >= fileSize && !(fileSize == 0 && req.Offset == 0) {
		res.SetStatus(sfp.StatusOffsetOOB)
		return res
	}

	if _, err := f.Seek(int64(req.Offset), io.SeekStart); err != nil {
		logging.IOFailed("RD seek", full, err)
		res.SetStatus(sfp.StatusIO)
		return res
	}

	if _, err := f.Read(res.Payload[:]); err != nil && err != io.EOF {
		logging.IOFailed("RD read", full, err)
		res.SetStatus(sfp.StatusIO)
		return res
	}
	logging.RequestReceived("RD_REQ", req.Owner, req.Path)
	res.Offset = req.Offset
	return res
}

// handleWrite implements WR_REQ, including two special cases: an
// offset-0 write whose payload starts with a NUL byte deletes the
// file, and an offset beyond the current size sparse-fills the gap
// with 0x20 bytes before writing.
func (s *Server) handleWrite(req *sfp.Message) *sfp.Message {
	res := sfp.NewReply(req)
	res.Offset = req.Offset

	if !checkPermission(req.Owner, req.Path) {
		logging.PermissionDenied(req.Owner, req.Path)
		res.SetStatus(sfp.StatusPermission)
		return res
	}

	full := s.fullPath(req.Path)

	if req.Offset == 0 && req.Payload[0] == 0 {
		if err := os.Remove(full); err != nil {
			logging.IOFailed("WR delete", full, err)
			res.SetStatus(sfp.StatusIO)
			return res
		}
		res.Offset = 0
		return res
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		logging.IOFailed("WR mkdir", full, err)
		res.SetStatus(sfp.StatusIO)
		return res
	}

	f, err := os.OpenFile(full, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		logging.IOFailed("WR open", full, err)
		res.SetStatus(sfp.StatusNotFound)
		return res
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logging.IOFailed("WR stat", full, err)
		res.SetStatus(sfp.StatusIO)
		return res
	}

	fileSize := info.Size()
	if int64(req.Offset) > fileSize {
		if err := sparseFill(f, fileSize, int64(req.Offset)); err != nil {
			logging.IOFailed("WR sparse-fill", full, err)
			res.SetStatus(sfp.StatusIO)
			return res
		}
	}

	if _, err := f.Seek(int64(req.Offset), io.SeekStart); err != nil {
		logging.IOFailed("WR seek", full, err)
		res.SetStatus(sfp.StatusIO)
		return res
	}

	n, err := f.Write(req.Payload[:])
	if err != nil || n != sfp.PayloadSize {
		logging.IOFailed("WR write", full, err)
		res.SetStatus(sfp.StatusIO)
		return res
	}

	logging.RequestReceived("WR_REQ", req.Owner, req.Path)
	return res
}

// sparseFill pads a file from its current size to target with 0x20
// bytes, matching the original's hole-filling loop.
func sparseFill(f *os.File, from, target int64) error {
	if _, err := f.Seek(from, io.SeekStart); err != nil {
		return err
	}
	pad := make([]byte, target-from)
	for i := range pad {
		pad[i] = 0x20
	}
	_, err := f.Write(pad)
	return err
}

func (s *Server) fullPath(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}
