// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import "sync"

var (
	patchRegistryMu sync.RWMutex
	patchRegistry   = make(map[string]*PatchSpec)
)

// RegisterPatchSpec stores spec under its own name for later lookup by
// NewPatchFromName. Intended for use by PatchSpec.Store.
func RegisterPatchSpec(spec *PatchSpec) {
	patchRegistryMu.Lock()
	defer patchRegistryMu.Unlock()
	patchRegistry[spec.Name()] = spec
}

// LookupPatchSpec retrieves a previously stored spec by name.
func LookupPatchSpec(name string) (*PatchSpec, error) {
	patchRegistryMu.RLock()
	defer patchRegistryMu.RUnlock()
	spec, ok := patchRegistry[name]
	if !ok {
		return nil, &SpecIntegrityError{Reason: "no patch spec registered under name " + name}
	}
	return spec, nil
}
