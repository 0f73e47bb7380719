package predict

// Kind tags the three ways a submission can end.
type Kind string

const (
	KindOK             Kind = "ok"
	KindServiceError   Kind = "service_error"
	KindTransportError Kind = "transport_error"
)

// DefaultErrorMessage is shown when a failed response carries no usable error field.
const DefaultErrorMessage = "An error occurred"

// Outcome is the result of one prediction call. Response is set for KindOK;
// Err holds a *ServiceError or *TransportError otherwise.
type Outcome struct {
	Kind     Kind
	Status   int
	Response Response
	Err      error
}

// Message returns the text for the error panel, or "" for a success.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// OK reports whether the prediction succeeded.
func (o Outcome) OK() bool {
	return o.Kind == KindOK
}

// ServiceError is a response whose status indicates failure.
type ServiceError struct {
	Status          int
	Message         string
	MissingFeatures []string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// TransportError means the exchange could not complete: the request failed,
// or the body could not be understood.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "Network error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func succeeded(resp Response, status int) Outcome {
	return Outcome{Kind: KindOK, Status: status, Response: resp}
}

func failed(err *ServiceError) Outcome {
	return Outcome{Kind: KindServiceError, Status: err.Status, Err: err}
}

func unreachable(status int, err error) Outcome {
	return Outcome{Kind: KindTransportError, Status: status, Err: &TransportError{Err: err}}
}
