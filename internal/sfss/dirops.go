package sfss

import (
	"os"
	"path/filepath"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/logging"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

// handleDirCreate implements DC_REQ: create req.Name under req.Path.
func (s *Server) handleDirCreate(req *sfp.Message) *sfp.Message {
	res := sfp.NewReply(req)

	if !checkPermission(req.Owner, req.Path) {
		logging.PermissionDenied(req.Owner, req.Path)
		res.SetStatus(sfp.StatusPermission)
		return res
	}

	target := filepath.Join(s.fullPath(req.Path), req.Name)
	if err := os.Mkdir(target, 0o755); err != nil {
		logging.IOFailed("DC mkdir", target, err)
		res.SetStatus(sfp.StatusIO)
		return res
	}

	res.Path = req.Path + "/" + req.Name
	res.PathLen = len(res.Path)
	logging.RequestReceived("DC_REQ", req.Owner, req.Path)
	return res
}

// handleDirRemove implements DR_REQ: remove req.Name under req.Path,
// whether it is a file or an empty directory.
func (s *Server) handleDirRemove(req *sfp.Message) *sfp.Message {
	res := sfp.NewReply(req)

	if !checkPermission(req.Owner, req.Path) {
		logging.PermissionDenied(req.Owner, req.Path)
		res.SetStatus(sfp.StatusPermission)
		return res
	}

	target := filepath.Join(s.fullPath(req.Path), req.Name)
	if err := os.Remove(target); err != nil {
		logging.IOFailed("DR remove", target, err)
		res.SetStatus(sfp.StatusIO)
		return res
	}

	res.PathLen = len(req.Path)
	logging.RequestReceived("DR_REQ", req.Owner, req.Path)
	return res
}

// handleDirList implements DL_REQ: list req.Path's entries, skipping
// "." and "..", bounded by MaxNames entries and MaxNamesBuffer bytes
// of concatenated names.
func (s *Server) handleDirList(req *sfp.Message) *sfp.Message {
	res := sfp.NewReply(req)
	res.PathLen = req.PathLen

	if !checkPermission(req.Owner, req.Path) {
		logging.PermissionDenied(req.Owner, req.Path)
		res.SetStatus(sfp.StatusPermission)
		return res
	}

	full := s.fullPath(req.Path)
	entries, err := os.ReadDir(full)
	if err != nil {
		logging.IOFailed("DL readdir", full, err)
		res.SetStatus(sfp.StatusNotFound)
		return res
	}

	var names []byte
	var dirEntries []sfp.DirEntry
	for _, e := range entries {
		name := e.Name()
		if name == "." || name == ".." {
			continue
		}
		if len(dirEntries) >= sfp.MaxNames {
			break
		}
		if len(names)+len(name) >= sfp.MaxNamesBuffer {
			break
		}

		start := len(names)
		names = append(names, name...)
		dirEntries = append(dirEntries, sfp.DirEntry{
			Start: int32(start),
			End:   int32(start + len(name) - 1),
			IsDir: e.IsDir(),
		})
	}

	res.Names = string(names)
	res.Entries = dirEntries
	res.NrNames = len(dirEntries)
	logging.RequestReceived("DL_REQ", req.Owner, req.Path)
	return res
}
