package common

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/content-contract/chain"
)

const (
	major = 0
	minor = 3
	patch = 0

	// Versions from which an update should be performed.
	prevMajor = 0
	prevMinor = 2
	prevPatch = 0

	Version = major*1_000_000 + minor*1_000 + patch

	PrevVersion = prevMajor*1_000_000 + prevMinor*1_000 + prevPatch
)

// systemPrefix is a storage prefix of the records shared by all modules.
const systemPrefix = 0x00

var versionKey = []byte{systemPrefix, 'v'}

var (
	// ErrVersionMismatch is returned by CheckVersion in case of error.
	ErrVersionMismatch = errors.New("previous version mismatch")

	// ErrAlreadyUpdated is returned by CheckVersion if current version equals
	// to version the state is being updated from.
	ErrAlreadyUpdated = errors.New("state is already of the latest version")
)

// CheckVersion checks that previous version is more than PrevVersion to ensure
// migrating state was done successfully. State of the future versions can't be
// updated too.
func CheckVersion(from uint32) error {
	if from == Version {
		return fmt.Errorf("%w: %d", ErrAlreadyUpdated, Version)
	}
	if from > Version {
		return fmt.Errorf("%w: state version %d is newer than %d", ErrVersionMismatch, from, Version)
	}
	if from < PrevVersion {
		return fmt.Errorf("%w: expected >=%d, got %d", ErrVersionMismatch, PrevVersion, from)
	}
	return nil
}

// StoredVersion returns version of the stored state. Returns false if the
// state is not initialized.
func StoredVersion(ctx *chain.Context) (uint32, bool) {
	data := ctx.Get(versionKey)
	if len(data) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data), true
}

// SetVersion records current version of the state.
func SetVersion(ctx *chain.Context) {
	ctx.Put(versionKey, binary.LittleEndian.AppendUint32(nil, Version))
}
