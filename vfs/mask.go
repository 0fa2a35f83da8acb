package vfs

import (
	"path"
	"strings"

	"github.com/ardhipoetra/faasm/errors"
)

// maskPath resolves a guest-relative path against a base virtual path and
// the configured shared root, canonicalising "." and ".." symbolically
// (never by asking the OS) and rejecting any result that escapes the root.
// It returns both the masked host path and the canonical virtual path, the
// latter being what gets stored on the resulting FD entry.
func maskPath(sharedRoot, baseVirtual, rel string) (hostPath, virtualPath string, err error) {
	if strings.ContainsRune(rel, 0) {
		return "", "", errors.InvalidInput(errors.PhaseVFS, "path contains NUL byte")
	}

	// Check the un-cleaned concatenation for traversal before path.Join gets
	// a chance to Clean the ".." away: path.Join("/", baseVirtual, rel)
	// normalises "../etc" relative to "/" down to "/etc" with no ".."
	// segment left to detect, which would let a guest escape the root
	// silently.
	uncleaned := rel
	if !path.IsAbs(rel) {
		uncleaned = path.Join("/", baseVirtual) + "/" + rel
	}

	if escapesViaTraversal(uncleaned) {
		return "", "", errors.New(errors.PhaseVFS, errors.KindPermission).
			Detail("path %q escapes shared root", rel).Build()
	}

	joined := rel
	if !path.IsAbs(rel) {
		joined = path.Join("/", baseVirtual, rel)
	}

	clean := path.Clean("/" + joined)
	root := strings.TrimRight(sharedRoot, "/")
	host := root + clean

	if host != root && !strings.HasPrefix(host, root+"/") {
		return "", "", errors.New(errors.PhaseVFS, errors.KindPermission).
			Detail("path %q escapes shared root", rel).Build()
	}

	return host, clean, nil
}

// escapesViaTraversal walks p's segments with a symbolic . / .. resolver
// (not path.Clean, which would silently normalise an escape) to detect
// whether it ever tries to ascend above the virtual root.
func escapesViaTraversal(p string) bool {
	depth := 0
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			depth--
			if depth < 0 {
				return true
			}
		default:
			depth++
		}
	}
	return false
}
