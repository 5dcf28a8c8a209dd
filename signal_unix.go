//go:build unix

package lineedit

import (
	"time"

	"golang.org/x/sys/unix"
)

// signalGuard blocks SIGINT, SIGALRM, and SIGWINCH on the calling thread,
// per spec.md §5: "Before entry it blocks those three signals in the
// caller's mask; on exit it restores the old mask." This uses
// PthreadSigmask rather than the process-wide sigprocmask, matching the
// pselect-based atomic wait recommended in spec.md §9.
type signalGuard struct {
	saved unix.Sigset_t
}

func blockWaitSignals() (*signalGuard, error) {
	var set, old unix.Sigset_t
	addSignals(&set)
	if err := unix.PthreadSigmask(unix.SIG_BLOCK, &set, &old); err != nil {
		return nil, err
	}
	return &signalGuard{saved: old}, nil
}

func (g *signalGuard) restore() {
	_ = unix.PthreadSigmask(unix.SIG_SETMASK, &g.saved, nil)
}

func addSignals(set *unix.Sigset_t) {
	_ = unix.SigaddSet(set, int(unix.SIGINT))
	_ = unix.SigaddSet(set, int(unix.SIGALRM))
	_ = unix.SigaddSet(set, int(unix.SIGWINCH))
}

// waitReadable performs the atomic descriptor-readable wait from spec.md §5:
// SIGINT/SIGALRM/SIGWINCH are unblocked only for the duration of the
// syscall, so a signal delivered between the cancel-flag check and the wait
// is guaranteed to interrupt it. Returns true if fd became readable, false
// on timeout or when a signal interrupts the wait.
func waitReadable(fd int, timeout time.Duration) (bool, error) {
	var empty unix.Sigset_t // an empty mask unblocks everything during the wait.

	ts := unix.NsecToTimespec(timeout.Nanoseconds())

	var rfds unix.FdSet
	fdSet(&rfds, fd)

	n, err := unix.Pselect(fd+1, &rfds, nil, nil, &ts, &empty)
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	return n > 0, nil
}

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << uint(fd%64)
}
