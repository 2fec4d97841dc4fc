package parser

const (
	// Annotation parameter names
	ParamHelper   = "Helper"
	ParamEvent    = "Event"
	ParamMethod   = "Method"
	ParamPriority = "Priority"
	ParamID       = "Id"
)
