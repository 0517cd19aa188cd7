package apiconnect

import (
	"errors"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

// Validation failures carry a google.protobuf.Struct detail with these keys.
const (
	detailKind  = "kind"
	detailField = "field"
)

// NewValidationError builds an InvalidArgument error whose detail names the
// failed rule and the offending field.
func NewValidationError(err error, kind, field string) *connect.Error {
	return NewErrorWithDetail(connect.CodeInvalidArgument, err, kind, field)
}

// NewErrorWithDetail builds a Connect error with a {kind, field} detail.
func NewErrorWithDetail(code connect.Code, err error, kind, field string) *connect.Error {
	cerr := connect.NewError(code, err)
	payload, perr := structpb.NewStruct(map[string]any{
		detailKind:  kind,
		detailField: field,
	})
	if perr != nil {
		return cerr
	}
	if detail, derr := connect.NewErrorDetail(payload); derr == nil {
		cerr.AddDetail(detail)
	}
	return cerr
}

// ErrorDetail extracts the rule kind and field from an error returned by a
// client. ok is false when err carries no such detail.
func ErrorDetail(err error) (kind, field string, ok bool) {
	var cerr *connect.Error
	if !errors.As(err, &cerr) {
		return "", "", false
	}
	for _, d := range cerr.Details() {
		msg, verr := d.Value()
		if verr != nil {
			continue
		}
		s, isStruct := msg.(*structpb.Struct)
		if !isStruct {
			continue
		}
		fields := s.GetFields()
		return fields[detailKind].GetStringValue(), fields[detailField].GetStringValue(), true
	}
	return "", "", false
}
