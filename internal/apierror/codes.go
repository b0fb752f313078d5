package apierror

// Error type URIs following the urn:biosignal:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:biosignal:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:biosignal:error:not_found"

	// TypeInvalidDate indicates a date that does not parse as YYYY-MM-DD (400)
	TypeInvalidDate = "urn:biosignal:error:invalid_date"

	// TypeInvalidRange indicates a date range with end before start (400)
	TypeInvalidRange = "urn:biosignal:error:invalid_range"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:biosignal:error:bad_request"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:biosignal:error:internal"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation   = "Validation Error"
	TitleNotFound     = "Resource Not Found"
	TitleInvalidDate  = "Invalid Date Format"
	TitleInvalidRange = "Invalid Date Range"
	TitleBadRequest   = "Bad Request"
	TitleInternal     = "Internal Server Error"
)
