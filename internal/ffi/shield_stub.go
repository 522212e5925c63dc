//go:build !cgo || !shieldffi

package ffi

func TrialDecryptJSON(string) (string, error) {
	return "", ErrPrimitivesUnavailable
}

func DecryptOutputJSON(string) (string, error) {
	return "", ErrPrimitivesUnavailable
}

func RecoverOutgoingJSON(string) (string, error) {
	return "", ErrPrimitivesUnavailable
}

func NullifierJSON(string) (string, error) {
	return "", ErrPrimitivesUnavailable
}

func WitnessJSON(string) (string, error) {
	return "", ErrPrimitivesUnavailable
}

func ExtendWitnessJSON(string) (string, error) {
	return "", ErrPrimitivesUnavailable
}
