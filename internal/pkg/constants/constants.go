package constants

import "net/http"

// CodedError is an error carrying the HTTP status it should map to.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string { return e.msg }
func (e *CodedError) Code() int     { return e.code }

var (
	ErrDBNotFound        = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized      = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrMissingAuthCookie = NewCodedError("missing auth cookie", http.StatusUnauthorized)
	ErrInsufficientData  = NewCodedError("insufficient data points", http.StatusUnprocessableEntity)
)

// Viper keys.
const (
	ViperPostgresDSN = "postgres_dsn"
	ViperListenAddr  = "listen_addr"
	ViperSecretKey   = "secret_key"
	ViperDataDir     = "data_dir"

	ViperRivmCumulativeURL   = "sources.rivm_cumulative"
	ViperRivmReproductionURL = "sources.rivm_reproduction"
	ViperRivmPrevalenceURL   = "sources.rivm_prevalence"
	ViperRivmCasesURL        = "sources.rivm_cases"
	ViperNiceCumulativeURL   = "sources.nice_cumulative"
	ViperNiceProvenURL       = "sources.nice_proven"
	ViperNiceSuspectedURL    = "sources.nice_suspected"
	ViperSourceIndexURL      = "sources.index"

	ViperIncubationTime       = "epidemic.incubation_time"
	ViperGenerationalInterval = "epidemic.generational_interval"
	ViperGenerationalStdev    = "epidemic.generational_stdev"
	ViperDailyCountPolicy     = "epidemic.daily_count_policy"
)

const CookieKeySecretToken = "secret_token"
