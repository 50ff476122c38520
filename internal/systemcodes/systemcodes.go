package systemcodes

const (
	ErrorCodeGeneric   = 1
	ErrorCodeConfig    = 3
	ErrorCodeTimeout   = 4
	ErrorCodeUpstream  = 5
	ErrorCodeCancelled = 130
)
