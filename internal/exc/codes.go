package exc

const (
	CodeUnknownFatal        = "S0000"
	CodeFileNotFound        = "S0001"
	CodePermissionDenied    = "S0002"
	CodeUnsupportedEncoding = "S0003"
	CodeNoSuchElement       = "S0004" // no token remains
	CodeInputMismatch       = "S0005" // token does not have the requested form
	CodeOverflow            = "S0006" // token is out of range for the requested type
	CodeIllegalState        = "S0007"
	CodeClosed              = "S0008"
	CodeInvalidArgument     = "S0009"
	CodeInvalidPattern      = "S0010"
)

var (
	// Conversion failures leave the scanner usable so they are safe to
	// collect and continue past.
	defaultNonFatal = map[string]bool{
		CodeInputMismatch: true,
		CodeOverflow:      true,
	}
)
