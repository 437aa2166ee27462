package domain

// FallbackCause identifies why a recommendation fell back to deterministic content,
// so callers can distinguish causes in logs and metrics without parsing bullet text.
type FallbackCause string

const (
	// CauseNone means generation succeeded.
	CauseNone FallbackCause = ""
	// CauseDocumentNotFound means the grounding document does not exist.
	CauseDocumentNotFound FallbackCause = "document_not_found"
	// CauseNoCredentials means no model credentials are configured.
	CauseNoCredentials FallbackCause = "no_credentials"
	// CauseProviderError means the model invocation failed (network, timeout, API error).
	CauseProviderError FallbackCause = "provider_error"
	// CauseParseError means the model returned unparsable output.
	CauseParseError FallbackCause = "parse_error"
)

// Recommendation is a grounded, citation-backed recommendation for a field note.
// When FallbackUsed is false, every citation is a verbatim substring of the
// grounding document's text.
type Recommendation struct {
	Bullets      []string
	Citations    []string
	FallbackUsed bool
	Cause        FallbackCause
}
