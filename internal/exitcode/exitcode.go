package exitcode

const (
	Success        = 0
	UsageError     = 1
	ParseError     = 2
	ReconcileError = 3
	DBConnError    = 4
	StoreError     = 5
	APIError       = 6
)
