package authority

import "fmt"

// Category is the user-facing classification of a failed authority call.
type Category string

const (
	// CategoryNetwork covers timeouts and transport failures. These are
	// the only retryable failures.
	CategoryNetwork Category = "network-timeout"

	// CategoryTokenInvalid covers 400/401: the request or its
	// verification token was malformed or not accepted.
	CategoryTokenInvalid Category = "token-invalid"

	// CategoryTokenRejected covers 403: the authority refused the token.
	CategoryTokenRejected Category = "token-rejected"

	// CategoryRateLimited covers 429.
	CategoryRateLimited Category = "rate-limited"

	// CategoryServerError covers 5xx.
	CategoryServerError Category = "server-unavailable"

	// CategoryOther covers everything else.
	CategoryOther Category = "other"
)

// Classify maps an HTTP status code onto a failure category.
func Classify(status int) Category {
	switch {
	case status == 400 || status == 401:
		return CategoryTokenInvalid
	case status == 403:
		return CategoryTokenRejected
	case status == 429:
		return CategoryRateLimited
	case status >= 500 && status <= 599:
		return CategoryServerError
	default:
		return CategoryOther
	}
}

// Message returns the human-readable explanation for the category.
func (c Category) Message() string {
	switch c {
	case CategoryNetwork:
		return "Could not reach the arrival-card authority (network problem or timeout)."
	case CategoryTokenInvalid:
		return "The submission request or its verification token was not accepted."
	case CategoryTokenRejected:
		return "The authority rejected the verification token."
	case CategoryRateLimited:
		return "Too many submission attempts; the authority is rate limiting this device."
	case CategoryServerError:
		return "The arrival-card authority service is temporarily unavailable."
	default:
		return "The authority returned an unexpected response."
	}
}

// Suggestions returns short user actions appropriate for the category.
func (c Category) Suggestions() []string {
	switch c {
	case CategoryNetwork:
		return []string{"check your connection or switch network", "try again in a few minutes"}
	case CategoryTokenInvalid, CategoryTokenRejected:
		return []string{"request a new verification token", "review the entered data and try again"}
	case CategoryRateLimited:
		return []string{"wait a few minutes before retrying"}
	case CategoryServerError:
		return []string{"wait and retry later"}
	default:
		return []string{"try again later", "contact support if the problem persists"}
	}
}

// APIError is a failed authority call. StatusCode is zero for transport
// level failures (no HTTP response was received).
type APIError struct {
	StatusCode int
	Category   Category
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("authority call failed (%s): %s", e.Category, e.Body)
	}
	return fmt.Sprintf("authority returned status %d (%s)", e.StatusCode, e.Category)
}
