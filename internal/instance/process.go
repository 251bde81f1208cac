package instance

// IdentifyFunc returns a fingerprint of the running process pid. The
// fingerprint changes when the pid is reused by another process, and an
// error means the process is gone or cannot be inspected.
type IdentifyFunc func(pid int) (string, error)

// SameProcess reports whether rec's pid still names the process recorded at
// launch. Records without an identity never match.
func SameProcess(rec Record, identify IdentifyFunc) bool {
	if rec.PID <= 0 || rec.Identity == "" {
		return false
	}
	id, err := identify(rec.PID)
	return err == nil && id == rec.Identity
}
