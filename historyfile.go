//go:build unix

package lineedit

import (
	"os"

	"golang.org/x/sys/unix"
)

// HistoryFile wraps a history text file with advisory locking, so two
// processes sharing one history path (e.g. several shells) do not tear each
// other's writes, per SPEC_FULL.md §6 SUPPLEMENTED.
type HistoryFile struct {
	path string
}

// NewHistoryFile names the backing file. The file is created on first Save
// if it does not already exist.
func NewHistoryFile(path string) *HistoryFile {
	return &HistoryFile{path: path}
}

// Load reads the history file into h, holding a shared lock for the
// duration of the read. A missing file is not an error; h is left empty.
func (hf *HistoryFile) Load(h *History) error {
	f, err := os.Open(hf.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return newErr(KindIO, err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_SH); err != nil {
		return newErr(KindIO, err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	if err := h.Load(f); err != nil {
		return newErr(KindIO, err)
	}
	return nil
}

// Save writes h to the history file, holding an exclusive lock for the
// duration of the write.
func (hf *HistoryFile) Save(h *History) error {
	f, err := os.OpenFile(hf.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return newErr(KindIO, err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return newErr(KindIO, err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	if err := h.Save(f); err != nil {
		return newErr(KindIO, err)
	}
	return nil
}
