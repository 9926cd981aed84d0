package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies every error the engine can surface to a caller.
// There is no "fatal" kind: anything not validated away locally is either a
// conflict (refresh state, do not retry blindly) or retryable persistence.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidacao — rejected locally before any persistence call; no state mutated.
	KindValidacao
	// KindConflito — current state diverged from what the caller saw (caixa já aberto,
	// version mismatch, pedido inexistente). Caller should reload, not retry.
	KindConflito
	// KindPersistencia — the backend call failed; local state untouched; retryable.
	KindPersistencia
)

// Fault is the engine-wide error type. Services and engines return it so that
// handlers can map Kind to an HTTP status without string matching.
type Fault struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
	Err    error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Msg, f.Err)
	}
	return f.Msg
}

func (f *Fault) Unwrap() error { return f.Err }

func Validacao(msg string) error {
	return &Fault{Kind: KindValidacao, Msg: msg}
}

func ValidacaoCampos(msg string, fields map[string]string) error {
	return &Fault{Kind: KindValidacao, Msg: msg, Fields: fields}
}

func Conflito(msg string) error {
	return &Fault{Kind: KindConflito, Msg: msg}
}

func Persistencia(msg string, err error) error {
	return &Fault{Kind: KindPersistencia, Msg: msg, Err: err}
}

// KindOf extracts the Kind from any error in the chain; KindUnknown otherwise.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

// FieldsOf returns the field map of a validation fault, or nil.
func FieldsOf(err error) map[string]string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Fields
	}
	return nil
}
