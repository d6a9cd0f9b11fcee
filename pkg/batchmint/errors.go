package batchmint

import (
	"errors"
	"fmt"
)

// ErrorKind groups error codes by what went wrong.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindHashMismatch  ErrorKind = "hash_mismatch"
	KindStructural    ErrorKind = "structural"
	KindAuthorization ErrorKind = "authorization"
	KindRootMismatch  ErrorKind = "root_mismatch"
	KindCapacity      ErrorKind = "capacity"
	KindCodec         ErrorKind = "codec"
)

type ErrorCode string

const (
	ErrorCodeUnexpectedTreeSize ErrorCode = "unexpected_tree_size"
	ErrorCodeIllegalArguments   ErrorCode = "illegal_arguments"

	ErrorCodePDACheckFail        ErrorCode = "pda_check_fail"
	ErrorCodeInvalidDataHash     ErrorCode = "invalid_data_hash"
	ErrorCodeInvalidCreatorsHash ErrorCode = "invalid_creators_hash"

	ErrorCodeWrongNonce              ErrorCode = "wrong_nonce"
	ErrorCodeWrongAssetPath          ErrorCode = "wrong_asset_path"
	ErrorCodeWrongTreeIDForChangeLog ErrorCode = "wrong_tree_id_for_change_log"
	ErrorCodeWrongChangeLogIndex     ErrorCode = "wrong_change_log_index"
	ErrorCodeNoRelevantBatchMint     ErrorCode = "no_relevant_batch_mint"
	ErrorCodeMissingBatchMint        ErrorCode = "missing_batch_mint"

	ErrorCodeWrongCollectionVerified    ErrorCode = "wrong_collection_verified"
	ErrorCodeVerifiedCollectionMismatch ErrorCode = "verified_collection_mismatch"
	ErrorCodeFailedCreatorVerification  ErrorCode = "failed_creator_verification"
	ErrorCodeMissingCreatorSignature    ErrorCode = "missing_creator_signature"
	ErrorCodeExtraCreatorsReceived      ErrorCode = "extra_creators_received"
	ErrorCodeUnverifiedCreator          ErrorCode = "cannot_add_signature_for_unverified_creator"
	ErrorCodeMissingCollectionSignature ErrorCode = "missing_collection_signature"

	ErrorCodeInvalidRoot         ErrorCode = "invalid_root"
	ErrorCodeInvalidLastLeafHash ErrorCode = "invalid_last_leaf_hash"

	ErrorCodeTreeFull ErrorCode = "tree_full"

	ErrorCodeInvalidBatchFile ErrorCode = "invalid_batch_file"
	ErrorCodeInvalidTreeData  ErrorCode = "invalid_tree_data"
)

// Error is returned by every batch mint operation. Asset is the base58 id of
// the offending asset, when there is one. Expected and Actual carry the
// compared values in base58.
type Error struct {
	Code     ErrorCode
	Kind     ErrorKind
	Message  string
	Asset    string
	Expected string
	Actual   string
	Err      error
}

func (e *Error) Error() string {
	message := e.Message
	if e.Expected != "" || e.Actual != "" {
		message = fmt.Sprintf("%s: expected: %s, got: %s", message, e.Expected, e.Actual)
	}
	if e.Err != nil {
		message = fmt.Sprintf("%s: %v", message, e.Err)
	}
	return message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var batchErr *Error
	if errors.As(err, &batchErr) {
		return batchErr.Code
	}
	return ""
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var batchErr *Error
	if errors.As(err, &batchErr) {
		return batchErr.Kind
	}
	return ""
}

func newError(kind ErrorKind, code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func mismatchError(kind ErrorKind, code ErrorCode, message, asset, expected, actual string) *Error {
	return &Error{
		Code:     code,
		Kind:     kind,
		Message:  message,
		Asset:    asset,
		Expected: expected,
		Actual:   actual,
	}
}

func wrapError(kind ErrorKind, code ErrorCode, err error, format string, args ...any) *Error {
	return &Error{Code: code, Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
