// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package arbor

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the fixed set of ways a caller-controlled input
// can be rejected. Engine code never panics on caller input; it returns
// an *Error carrying one of these.
type ErrorKind int

const (
	// InvalidParent: an operation references a parent id absent from the tree.
	InvalidParent ErrorKind = iota
	// InvalidOp: an apply-time violation (deleting Root, inserting over
	// an occupied id, an op referencing an absent id).
	InvalidOp
	// Truncated: the codec ran out of bytes mid-value.
	Truncated
	// InvalidOpType: an unrecognized op-type byte.
	InvalidOpType
	// InvalidKind: an unrecognized node-kind byte. DecodePatch never
	// returns it, because NormalizeKind absorbs 8..254 into Custom.
	InvalidKind
	// InvalidValueTag: an unrecognized value-tag byte.
	InvalidValueTag
	// InvalidUtf8: a string field failed UTF-8 validation.
	InvalidUtf8
	// UnknownBranch: checkout or branch lookup of a name that doesn't exist.
	UnknownBranch
	// BranchExists: create_branch on a name already in use.
	BranchExists
	// UnknownCommit: diff/merge given a hash not present in the repository.
	UnknownCommit
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidParent:
		return "InvalidParent"
	case InvalidOp:
		return "InvalidOp"
	case Truncated:
		return "Truncated"
	case InvalidOpType:
		return "InvalidOpType"
	case InvalidKind:
		return "InvalidKind"
	case InvalidValueTag:
		return "InvalidValueTag"
	case InvalidUtf8:
		return "InvalidUtf8"
	case UnknownBranch:
		return "UnknownBranch"
	case BranchExists:
		return "BranchExists"
	case UnknownCommit:
		return "UnknownCommit"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the engine's single error type. Op names the failing
// operation (e.g. "RemoveSubtree", "DecodePatch") for log/trace
// purposes; Err carries the underlying cause, wrapped with
// github.com/pkg/errors so a stack trace survives through Cause().
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("arbor: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("arbor: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds an *Error, wrapping msg with github.com/pkg/errors so
// Cause() and stack-trace-aware formatting remain available upstream.
func newError(kind ErrorKind, op string, msg string) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

func wrapError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.Wrap(err, op)}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
