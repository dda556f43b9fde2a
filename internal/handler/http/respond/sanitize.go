package respond

import (
	"regexp"
)

var (
	// webhook URL paths carry the channel secret, mask everything after the host
	slackWebhookPattern   = regexp.MustCompile(`(https://hooks\.slack\.com/services/)[A-Za-z0-9/_-]+`)
	discordWebhookPattern = regexp.MustCompile(`(https://discord\.com/api/webhooks/)[A-Za-z0-9/_-]+`)

	// signed JWTs in error text (three dot-separated base64url segments)
	jwtPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

	// database password inside a DSN
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)
)

// SanitizeError returns the error message with credentials masked. Errors
// from the fetcher and notifier can embed webhook URLs or DSNs verbatim,
// and those end up in logs.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = slackWebhookPattern.ReplaceAllString(msg, "${1}****")
	msg = discordWebhookPattern.ReplaceAllString(msg, "${1}****")
	msg = jwtPattern.ReplaceAllString(msg, "****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
