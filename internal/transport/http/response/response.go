package response

import (
	"cardlink/internal/apperr"
)

// Resp is the callable-surface envelope. Kind lets clients branch on the
// failure taxonomy without parsing messages.
type Resp struct {
	Code int         `json:"code"`
	Kind string      `json:"kind,omitempty"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New keeps data non-null in the wire format.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// FromError maps a service error onto the envelope. QuotaExceeded carries
// current/limit in data for the client's upgrade prompt.
func FromError(err error) Resp {
	ae, ok := apperr.As(err)
	if !ok {
		r := Error(CodeServerError, err.Error())
		r.Kind = string(apperr.KindInternal)
		return r
	}
	r := Error(CodeOf(ae.Kind), ae.Msg)
	r.Kind = string(ae.Kind)
	if ae.Kind == apperr.KindQuotaExceeded {
		r.Data = map[string]int{"current": ae.Current, "limit": ae.Limit}
	}
	return r
}
