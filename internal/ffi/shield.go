//go:build cgo && shieldffi

package ffi

/*
#cgo CFLAGS: -I${SRCDIR}/../../rust/shieldffi/include
#cgo LDFLAGS: -L${SRCDIR}/../../rust/shieldffi/target/release -lshieldsync_ffi

#include "shieldsync_ffi.h"
#include <stdlib.h>
*/
import "C"

import "unsafe"

func TrialDecryptJSON(req string) (string, error) {
	cReq := C.CString(req)
	defer C.free(unsafe.Pointer(cReq))

	out := C.shieldsync_trial_decrypt_json(cReq)
	if out == nil {
		return "", errNull
	}
	defer C.shieldsync_string_free(out)

	return C.GoString(out), nil
}

func DecryptOutputJSON(req string) (string, error) {
	cReq := C.CString(req)
	defer C.free(unsafe.Pointer(cReq))

	out := C.shieldsync_decrypt_output_json(cReq)
	if out == nil {
		return "", errNull
	}
	defer C.shieldsync_string_free(out)

	return C.GoString(out), nil
}

func RecoverOutgoingJSON(req string) (string, error) {
	cReq := C.CString(req)
	defer C.free(unsafe.Pointer(cReq))

	out := C.shieldsync_recover_outgoing_json(cReq)
	if out == nil {
		return "", errNull
	}
	defer C.shieldsync_string_free(out)

	return C.GoString(out), nil
}

func NullifierJSON(req string) (string, error) {
	cReq := C.CString(req)
	defer C.free(unsafe.Pointer(cReq))

	out := C.shieldsync_nullifier_json(cReq)
	if out == nil {
		return "", errNull
	}
	defer C.shieldsync_string_free(out)

	return C.GoString(out), nil
}

func WitnessJSON(req string) (string, error) {
	cReq := C.CString(req)
	defer C.free(unsafe.Pointer(cReq))

	out := C.shieldsync_witness_json(cReq)
	if out == nil {
		return "", errNull
	}
	defer C.shieldsync_string_free(out)

	return C.GoString(out), nil
}

func ExtendWitnessJSON(req string) (string, error) {
	cReq := C.CString(req)
	defer C.free(unsafe.Pointer(cReq))

	out := C.shieldsync_extend_witness_json(cReq)
	if out == nil {
		return "", errNull
	}
	defer C.shieldsync_string_free(out)

	return C.GoString(out), nil
}
