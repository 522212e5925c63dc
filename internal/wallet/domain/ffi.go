package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/shieldsync-backend/internal/ffi"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

var errInvalidResponse = errors.New("shieldffi: invalid response")

// FFIError is an error code reported by the linked library.
type FFIError struct {
	Code string
}

func (e *FFIError) Error() string {
	return fmt.Sprintf("shieldffi: %s", e.Code)
}

// FFIPrimitives implements Primitives on top of the cgo binding.
type FFIPrimitives struct {
	protocol model.Protocol
	call     func(op string, req string) (string, error)
}

// NewFFIPrimitives returns the linked primitives of protocol. Every call fails with
// ffi.ErrPrimitivesUnavailable unless the binary was built with the shieldffi tag.
func NewFFIPrimitives(protocol model.Protocol) *FFIPrimitives {
	return &FFIPrimitives{protocol: protocol, call: callFFI}
}

func callFFI(op, req string) (string, error) {
	switch op {
	case "trial_decrypt":
		return ffi.TrialDecryptJSON(req)
	case "decrypt":
		return ffi.DecryptOutputJSON(req)
	case "recover_outgoing":
		return ffi.RecoverOutgoingJSON(req)
	case "nullifier":
		return ffi.NullifierJSON(req)
	case "witness":
		return ffi.WitnessJSON(req)
	case "extend_witness":
		return ffi.ExtendWitnessJSON(req)
	default:
		return "", fmt.Errorf("shieldffi: unknown op %q", op)
	}
}

type response[T any] struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Result T      `json:"result"`
}

func invoke[T any](p *FFIPrimitives, op string, req any) (T, error) {
	var zero T
	b, err := json.Marshal(req)
	if err != nil {
		return zero, fmt.Errorf("shieldffi: marshal %s request: %w", op, err)
	}
	raw, err := p.call(op, string(b))
	if err != nil {
		return zero, err
	}

	var resp response[T]
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return zero, errInvalidResponse
	}
	switch resp.Status {
	case "ok":
		return resp.Result, nil
	case "err":
		if resp.Error == "" {
			return zero, errInvalidResponse
		}
		return zero, &FFIError{Code: resp.Error}
	default:
		return zero, errInvalidResponse
	}
}

type trialDecryptRequest struct {
	Protocol model.Protocol  `json:"protocol"`
	IVKs     [][]byte        `json:"ivks"`
	Outputs  []CompactOutput `json:"outputs"`
}

type outputRequest struct {
	Protocol model.Protocol `json:"protocol"`
	Key      []byte         `json:"key"`
	Output   FullOutput     `json:"output"`
}

type decryptResult struct {
	OK   bool          `json:"ok"`
	Note DecryptedNote `json:"note"`
}

type recoverResult struct {
	OK     bool            `json:"ok"`
	Output RecoveredOutput `json:"output"`
}

type nullifierRequest struct {
	Protocol model.Protocol `json:"protocol"`
	FVK      []byte         `json:"fvk"`
	Note     DecryptedNote  `json:"note"`
	Position uint64         `json:"position"`
}

type witnessRequest struct {
	Protocol    model.Protocol `json:"protocol"`
	Frontier    []byte         `json:"frontier"`
	Commitments [][32]byte     `json:"commitments"`
	Index       int            `json:"index"`
}

type extendWitnessRequest struct {
	Protocol    model.Protocol `json:"protocol"`
	Witness     []byte         `json:"witness"`
	Commitments [][32]byte     `json:"commitments"`
}

func (p *FFIPrimitives) TrialDecrypt(ivks [][]byte, outputs []CompactOutput) ([]TrialHit, error) {
	return invoke[[]TrialHit](p, "trial_decrypt", trialDecryptRequest{Protocol: p.protocol, IVKs: ivks, Outputs: outputs})
}

func (p *FFIPrimitives) Decrypt(ivk []byte, out FullOutput) (DecryptedNote, bool, error) {
	res, err := invoke[decryptResult](p, "decrypt", outputRequest{Protocol: p.protocol, Key: ivk, Output: out})
	if err != nil {
		return DecryptedNote{}, false, err
	}
	return res.Note, res.OK, nil
}

func (p *FFIPrimitives) RecoverOutgoing(ovk []byte, out FullOutput) (RecoveredOutput, bool, error) {
	res, err := invoke[recoverResult](p, "recover_outgoing", outputRequest{Protocol: p.protocol, Key: ovk, Output: out})
	if err != nil {
		return RecoveredOutput{}, false, err
	}
	return res.Output, res.OK, nil
}

func (p *FFIPrimitives) Nullifier(fvk []byte, note DecryptedNote, position uint64) ([32]byte, error) {
	return invoke[[32]byte](p, "nullifier", nullifierRequest{Protocol: p.protocol, FVK: fvk, Note: note, Position: position})
}

func (p *FFIPrimitives) Witness(frontier []byte, commitments [][32]byte, index int) (WitnessState, error) {
	return invoke[WitnessState](p, "witness", witnessRequest{
		Protocol:    p.protocol,
		Frontier:    frontier,
		Commitments: commitments,
		Index:       index,
	})
}

func (p *FFIPrimitives) ExtendWitness(witness []byte, commitments [][32]byte) ([]byte, error) {
	return invoke[[]byte](p, "extend_witness", extendWitnessRequest{Protocol: p.protocol, Witness: witness, Commitments: commitments})
}
