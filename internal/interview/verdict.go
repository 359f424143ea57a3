package interview

import (
	"strings"

	"github.com/abhishek622/intellihire/pkg/model"
)

// ParseVerdict reads the first line that starts with "result:" (any case).
// Only a line mentioning success passes; a missing line is a failure.
func ParseVerdict(summary string) model.InterviewResult {
	for _, line := range strings.Split(summary, "\n") {
		l := strings.ToLower(strings.TrimSpace(line))
		if !strings.HasPrefix(l, "result:") {
			continue
		}
		if strings.Contains(l, "success") {
			return model.InterviewResultSuccess
		}
		return model.InterviewResultFailure
	}
	return model.InterviewResultFailure
}
