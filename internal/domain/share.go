package domain

import "fmt"

// ShareText serializes an assessment into the single line handed to the
// platform share facility or the clipboard.
func ShareText(a Assessment) string {
	status := "⚠️ Weather Caution Advised"
	if a.Verdict.ParadeSafe {
		status = "✅ Parade-Safe!"
	}
	return fmt.Sprintf("SpaceShield Parade Forecast for %s in %s on %s: %s",
		a.Submission.EventName, a.Submission.City, a.Submission.Date.Format(DateLayout), status)
}
