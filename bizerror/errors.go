package bizerror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("record not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrTooManyRequests  = errors.New("too many requests")
	ErrDecryptionFailed = errors.New("decryption failed")

	ErrUnknownResourceType  = errors.New("unknown resource type")
	ErrGroupOutsideOrg      = errors.New("group does not belong to the organization")
	ErrOwnerImmutable       = errors.New("organization owner can not be changed or removed")
	ErrLastGroupAdmin       = errors.New("group must keep at least one admin")
	ErrMemberSelfGrant      = errors.New("member can not grant for themselves")
	ErrSignedURLUnsupported = errors.New("signed url is not supported by current storage")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}
